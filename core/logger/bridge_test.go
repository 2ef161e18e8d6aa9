package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"transease/core/events"
	"transease/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func nextLine(t *testing.T, sub *events.Subscription) string {
	t.Helper()
	select {
	case e := <-sub.Events():
		require.Equal(t, events.KindLogLine, e.Kind)
		return e.Text
	case <-time.After(2 * time.Second):
		t.Fatal("no log line published")
	}
	return ""
}

func TestBridge_PublishesLogLines(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(events.Options{})
	defer sub.Close()

	bridge := logger.NewBridge(bus, logger.BridgeOptions{})
	log := logger.Attach(zap.NewNop(), bridge)

	log.Info("Server started", zap.Int("port", 21))
	line := nextLine(t, sub)

	parts := strings.SplitN(line, " - ", 3)
	require.Len(t, parts, 3)
	_, err := time.ParseInLocation(logger.TimeLayout, parts[0], time.Local)
	assert.NoError(t, err)
	assert.Equal(t, "INFO", parts[1])
	assert.Contains(t, parts[2], "Server started")
	assert.Contains(t, parts[2], `"port": 21`)
}

func TestBridge_LevelFiltering(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(events.Options{})
	defer sub.Close()

	bridge := logger.NewBridge(bus, logger.BridgeOptions{})
	log := logger.Attach(zap.NewNop(), bridge)
	require.NoError(t, bridge.Configure("WARNING", false))
	assert.Equal(t, zapcore.WarnLevel, bridge.Level())

	log.Info("hidden")
	log.Warn("visible")
	assert.Contains(t, nextLine(t, sub), "WARNING - visible")

	require.NoError(t, bridge.Configure("DEBUG", false))
	log.Debug("now visible")
	assert.Contains(t, nextLine(t, sub), "DEBUG - now visible")

	assert.Error(t, bridge.Configure("LOUD", false))
	assert.Equal(t, zapcore.DebugLevel, bridge.Level())
}

func TestBridge_WithFields(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(events.Options{})
	defer sub.Close()

	bridge := logger.NewBridge(bus, logger.BridgeOptions{})
	log := logger.Attach(zap.NewNop(), bridge).With(zap.String("instance", "abc"))

	log.Error("bind failed")
	line := nextLine(t, sub)
	assert.Contains(t, line, "ERROR - bind failed")
	assert.Contains(t, line, `"instance": "abc"`)
}

func TestBridge_WritesFile(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	path := filepath.Join(t.TempDir(), "ftp_server.log")
	bridge := logger.NewBridge(bus, logger.BridgeOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1})
	log := logger.Attach(zap.NewNop(), bridge)

	log.Info("before enabling")
	require.NoError(t, bridge.Configure("INFO", true))
	assert.True(t, bridge.FileEnabled())
	assert.Equal(t, path, bridge.FilePath())

	log.Info("persisted line")
	require.NoError(t, bridge.Close())
	assert.False(t, bridge.FileEnabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO - persisted line")
	assert.NotContains(t, string(data), "before enabling")
}

func TestBridge_FileFailureDoesNotAffectEvents(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(events.Options{})
	defer sub.Close()

	// The parent of the log file is a regular file, so the directory cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	bridge := logger.NewBridge(bus, logger.BridgeOptions{Path: filepath.Join(blocker, "ftp_server.log")})
	defer bridge.Close()
	log := logger.Attach(zap.NewNop(), bridge)
	require.NoError(t, bridge.Configure("INFO", true))

	log.Info("still delivered")
	assert.Contains(t, nextLine(t, sub), "still delivered")

	assert.Eventually(t, func() bool {
		_, failed := bridge.FileStats()
		return failed > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		name string
	}{
		{"DEBUG", zapcore.DebugLevel, "DEBUG"},
		{"info", zapcore.InfoLevel, "INFO"},
		{"WARNING", zapcore.WarnLevel, "WARNING"},
		{"ERROR", zapcore.ErrorLevel, "ERROR"},
		{"CRITICAL", zapcore.DPanicLevel, "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, logger.LevelName(got))
		})
	}

	_, err := logger.ParseLevel("TRACE")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Config
	}{
		{"DebugConsole", logger.Config{Level: "debug", Format: "console"}},
		{"InfoJSON", logger.Config{Level: "info", Format: "json"}},
		{"WarnConsole", logger.Config{Level: "warn", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}
