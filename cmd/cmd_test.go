package cmd

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"transease/core/settings"
	"transease/feature/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runningStub bool

func (r runningStub) Running() bool { return bool(r) }

func waitReturns(t *testing.T, p *shutdownPrompt, sigs chan os.Signal) bool {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.wait(context.Background(), sigs)
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

func TestShutdownPrompt(t *testing.T) {
	tests := []struct {
		name        string
		running     bool
		interactive bool
		signal      os.Signal
		answer      string
		wantExit    bool
		wantPrompt  bool
	}{
		{name: "stopped server exits", running: false, interactive: true, signal: os.Interrupt, wantExit: true},
		{name: "non-terminal exits", running: true, interactive: false, signal: os.Interrupt, wantExit: true},
		{name: "sigterm exits", running: true, interactive: true, signal: syscall.SIGTERM, wantExit: true},
		{name: "yes exits", running: true, interactive: true, signal: os.Interrupt, answer: "y", wantExit: true, wantPrompt: true},
		{name: "no keeps serving", running: true, interactive: true, signal: os.Interrupt, answer: "n", wantExit: false, wantPrompt: true},
		{name: "empty answer keeps serving", running: true, interactive: true, signal: os.Interrupt, answer: "", wantExit: false, wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := make(chan string, 1)
			if tt.wantPrompt {
				answers <- tt.answer
			}
			var out bytes.Buffer
			p := &shutdownPrompt{
				server:      runningStub(tt.running),
				interactive: tt.interactive,
				answers:     answers,
				out:         &out,
				timeout:     time.Second,
			}
			sigs := make(chan os.Signal, 2)
			sigs <- tt.signal

			assert.Equal(t, tt.wantExit, waitReturns(t, p, sigs))
		})
	}
}

func TestShutdownPrompt_SecondInterrupt(t *testing.T) {
	p := &shutdownPrompt{
		server:      runningStub(true),
		interactive: true,
		answers:     make(chan string),
		out:         &bytes.Buffer{},
		timeout:     time.Minute,
	}
	sigs := make(chan os.Signal, 2)
	sigs <- os.Interrupt
	sigs <- os.Interrupt

	assert.True(t, waitReturns(t, p, sigs))
}

func TestShutdownPrompt_Timeout(t *testing.T) {
	p := &shutdownPrompt{
		server:      runningStub(true),
		interactive: true,
		answers:     make(chan string),
		out:         &bytes.Buffer{},
		timeout:     10 * time.Millisecond,
	}
	assert.False(t, p.confirm(context.Background(), make(chan os.Signal)))
}

func TestShutdownPrompt_ClosedInput(t *testing.T) {
	answers := make(chan string)
	close(answers)
	p := &shutdownPrompt{
		server:      runningStub(true),
		interactive: true,
		answers:     answers,
		out:         &bytes.Buffer{},
		timeout:     10 * time.Millisecond,
	}
	assert.False(t, p.confirm(context.Background(), make(chan os.Signal)))
	assert.Nil(t, p.answers)
}

func TestReadLines(t *testing.T) {
	var got []string
	for line := range readLines(bytes.NewBufferString("y\nno\n")) {
		got = append(got, line)
	}
	assert.Equal(t, []string{"y", "no"}, got)
}

func TestParseAssignments(t *testing.T) {
	updates, err := parseAssignments([]string{"port=2121", "encoding = utf-8", "ui.theme=dark"})
	require.NoError(t, err)
	assert.Equal(t, "2121", updates[settings.SectionGeneral][settings.KeyPort])
	assert.Equal(t, "utf-8", updates[settings.SectionGeneral][settings.KeyEncoding])
	assert.Equal(t, "dark", updates["ui"]["theme"])

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing equals", args: []string{"port"}},
		{name: "empty key", args: []string{"=21"}},
		{name: "unknown general key", args: []string{"colour=red"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAssignments(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestPrintSections(t *testing.T) {
	var out bytes.Buffer
	printSections(&out, map[string]map[string]string{
		"ui":                    {"theme": "dark"},
		settings.SectionGeneral: {"zzz": "1", settings.KeyEncoding: "gb18030", settings.KeyPort: "21"},
	}, false)

	assert.Equal(t, "[general]\nport = 21\nencoding = gb18030\nzzz = 1\n\n[ui]\ntheme = dark\n", out.String())
}

func TestPrintSessions(t *testing.T) {
	stopped := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	err := printSessions(&out, []history.Session{
		{Address: "0.0.0.0:21", Root: "/srv", Encoding: "gb18030", MaxConnections: 50, PeakConnections: 3,
			StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), StoppedAt: &stopped},
		{Address: "0.0.0.0:2121", Root: "/tmp", Encoding: "utf-8", MaxConnections: 5,
			StartedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "STARTED")
	assert.Contains(t, text, "3/50")
	assert.Contains(t, text, "running")
}

func TestLogFilePath(t *testing.T) {
	path, err := logFilePath(settings.Config{Path: "/etc/transease/config.ini", LogFile: "ftp.log"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/transease/ftp.log", path)

	path, err = logFilePath(settings.Config{Path: "/etc/transease/config.ini"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/transease/ftp_server.log", path)
}
