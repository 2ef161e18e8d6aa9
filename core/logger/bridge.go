package logger

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"transease/core/events"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeLayout is the timestamp layout of bridged log lines.
const TimeLayout = "2006-01-02 15:04:05,000"

const fileQueueSize = 1024

// BridgeOptions configures the durable log file of a Bridge.
type BridgeOptions struct {
	// Path is the log file written while save_log is enabled.
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Bridge is a zapcore.Core that turns every record into a LogLine event and, when
// enabled, appends the same line to a rotating file. The file is written by its own
// goroutine so a slow or failing disk never delays the event.
type Bridge struct {
	level zap.AtomicLevel
	enc   zapcore.Encoder
	sink  *bridgeSink
}

type bridgeSink struct {
	pub  events.Publisher
	opts BridgeOptions

	mu   sync.RWMutex
	file *fileWriter
}

// NewBridge creates a bridge publishing into pub at INFO level with the file disabled.
func NewBridge(pub events.Publisher, opts BridgeOptions) *Bridge {
	return &Bridge{
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
		enc:   zapcore.NewConsoleEncoder(lineEncoderConfig()),
		sink:  &bridgeSink{pub: pub, opts: opts},
	}
}

func lineEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "message",
		LineEnding:       "\n",
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

// Configure applies a settings log_level and save_log value in place.
func (b *Bridge) Configure(level string, saveLog bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	b.level.SetLevel(lvl)
	b.sink.setFile(saveLog)
	return nil
}

// Level returns the current threshold.
func (b *Bridge) Level() zapcore.Level {
	return b.level.Level()
}

// FileEnabled reports whether lines are currently written to the log file.
func (b *Bridge) FileEnabled() bool {
	b.sink.mu.RLock()
	defer b.sink.mu.RUnlock()
	return b.sink.file != nil
}

// FilePath returns the durable log file path.
func (b *Bridge) FilePath() string {
	return b.sink.opts.Path
}

// FileStats returns how many lines were dropped because the file queue was full and
// how many writes failed, for the current file.
func (b *Bridge) FileStats() (dropped, failed uint64) {
	b.sink.mu.RLock()
	defer b.sink.mu.RUnlock()
	if b.sink.file == nil {
		return 0, 0
	}
	return b.sink.file.dropped.Load(), b.sink.file.failed.Load()
}

// Close flushes and closes the log file.
func (b *Bridge) Close() error {
	return b.sink.setFile(false)
}

// Enabled implements zapcore.LevelEnabler.
func (b *Bridge) Enabled(l zapcore.Level) bool {
	return b.level.Enabled(l)
}

// With implements zapcore.Core.
func (b *Bridge) With(fields []zapcore.Field) zapcore.Core {
	enc := b.enc.Clone()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return &Bridge{level: b.level, enc: enc, sink: b.sink}
}

// Check implements zapcore.Core.
func (b *Bridge) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if b.Enabled(ent.Level) {
		return ce.AddCore(ent, b)
	}
	return ce
}

// Write implements zapcore.Core.
func (b *Bridge) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := b.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	line := strings.TrimRight(buf.String(), "\n")
	buf.Free()

	b.sink.pub.Publish(events.LogLine(line))
	b.sink.enqueue(line)
	return nil
}

// Sync implements zapcore.Core. File writes are asynchronous and flushed by Close.
func (b *Bridge) Sync() error {
	return nil
}

func (s *bridgeSink) enqueue(line string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.file != nil {
		s.file.enqueue(line)
	}
}

func (s *bridgeSink) setFile(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		if s.file == nil && s.opts.Path != "" {
			s.file = newFileWriter(&lumberjack.Logger{
				Filename:   s.opts.Path,
				MaxSize:    s.opts.MaxSizeMB,
				MaxBackups: s.opts.MaxBackups,
				MaxAge:     s.opts.MaxAgeDays,
				LocalTime:  true,
			})
		}
		return nil
	}

	if s.file == nil {
		return nil
	}
	err := s.file.close()
	s.file = nil
	return err
}

type fileWriter struct {
	out     io.WriteCloser
	lines   chan string
	done    chan struct{}
	dropped atomic.Uint64
	failed  atomic.Uint64
}

func newFileWriter(out io.WriteCloser) *fileWriter {
	w := &fileWriter{
		out:   out,
		lines: make(chan string, fileQueueSize),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *fileWriter) enqueue(line string) {
	select {
	case w.lines <- line:
	default:
		w.dropped.Add(1)
	}
}

func (w *fileWriter) run() {
	defer close(w.done)
	for line := range w.lines {
		if _, err := io.WriteString(w.out, line+"\n"); err != nil {
			w.failed.Add(1)
		}
	}
}

func (w *fileWriter) close() error {
	close(w.lines)
	<-w.done
	return w.out.Close()
}
