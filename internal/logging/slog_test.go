package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureConsole swaps the console writer for a buffer until the test ends.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := console
	console = &buf
	t.Cleanup(func() { console = orig })
	return &buf
}

func TestSetup_FileOnly_NoConsole(t *testing.T) {
	out := captureConsole(t)

	var fileBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &fileBuf, Level: "info"})
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file", "log should appear in file")
	assert.Empty(t, out.String(), "nothing should be written to console when file is provided")
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	out := captureConsole(t)

	m := NewSlogManager()
	m.Setup(Options{Level: "info"})
	m.Logger().Info("hello console")

	assert.Contains(t, out.String(), "hello console", "log should appear on console")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "debug"})

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info"})

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(Options{File: &buf1, Level: "info"})
	m.Logger().Info("first")

	m.Setup(Options{File: &buf2, Level: "info"})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_GraylogReceivesJSON(t *testing.T) {
	var file, graylog bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &file, Graylog: &graylog, Level: "info"})

	m.Logger().Info("spring setup calculated", "vehicle", "Supra")

	lines := strings.Split(strings.TrimSpace(graylog.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "spring setup calculated", entry["msg"])
	assert.Equal(t, "Supra", entry["vehicle"])
}

func TestSetup_ContextProvider(t *testing.T) {
	var buf bytes.Buffer
	vehicle := "none"

	m := NewSlogManager()
	m.Setup(Options{
		File:  &buf,
		Level: "info",
		Context: func() []slog.Attr {
			return []slog.Attr{slog.String("activeVehicle", vehicle)}
		},
	})

	vehicle = "GT-R"
	m.Logger().Info("calculating")

	assert.Contains(t, buf.String(), "activeVehicle=GT-R")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	logger := m.Logger()
	assert.Equal(t, slog.Default(), logger)
}

func TestFlush_NilProvider(t *testing.T) {
	m := NewSlogManager()
	err := m.Flush(context.Background())
	assert.NoError(t, err)
}

func TestWriteLog_AllLevels(t *testing.T) {
	levels := []struct {
		level    string
		contains string
	}{
		{"debug", "debug message"},
		{"info", "info message"},
		{"warn", "warn message"},
		{"error", "error message"},
		{"unknown", "unknown message"}, // defaults to info
	}

	for _, tt := range levels {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(Options{File: &buf, Level: "debug"})

			m.WriteLog("testFunc", tt.level+" message", tt.level)

			output := buf.String()
			assert.Contains(t, output, tt.contains)
			assert.Contains(t, output, "testFunc")
		})
	}
}

func TestWriteLog_NilLogger(t *testing.T) {
	m := NewSlogManager()
	// Should not panic
	m.WriteLog("fn", "data", "info")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestFanoutHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	fanout := NewFanoutHandler().
		Add("first", nil, slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})).
		Add("second", nil, slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo}))

	slog.New(fanout).Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
	assert.Equal(t, []string{"first", "second"}, fanout.Sinks())
}

func TestFanoutHandler_SkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	fanout := NewFanoutHandler().
		Add("missing", nil, nil).
		Add("file", nil, slog.NewTextHandler(&buf, nil))
	require.Equal(t, []string{"file"}, fanout.Sinks())

	slog.New(fanout).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestFanoutHandler_SinkLevel(t *testing.T) {
	var file, remote bytes.Buffer
	debugOpts := &slog.HandlerOptions{Level: slog.LevelDebug}
	fanout := NewFanoutHandler().
		Add("file", nil, slog.NewTextHandler(&file, debugOpts)).
		Add("graylog", slog.LevelWarn, slog.NewJSONHandler(&remote, debugOpts))

	logger := slog.New(fanout)
	logger.Info("local only")
	logger.Warn("everywhere")

	assert.Contains(t, file.String(), "local only")
	assert.Contains(t, file.String(), "everywhere")
	assert.NotContains(t, remote.String(), "local only")
	assert.Contains(t, remote.String(), "everywhere")
}

func TestFanoutHandler_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	infoOnly := NewFanoutHandler().Add("info", nil, infoHandler)
	assert.False(t, infoOnly.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(context.Background(), slog.LevelInfo))

	both := NewFanoutHandler().Add("info", nil, infoHandler).Add("debug", nil, debugHandler)
	assert.True(t, both.Enabled(context.Background(), slog.LevelDebug))

	gated := NewFanoutHandler().Add("debug", slog.LevelError, debugHandler)
	assert.False(t, gated.Enabled(context.Background(), slog.LevelWarn))

	assert.False(t, NewFanoutHandler().Enabled(context.Background(), slog.LevelInfo))
}

func TestFanoutHandler_WithAttrsKeepsSinkLevel(t *testing.T) {
	var buf bytes.Buffer
	fanout := NewFanoutHandler().Add("file", slog.LevelWarn, slog.NewTextHandler(&buf, nil))

	logger := slog.New(fanout.WithAttrs([]slog.Attr{slog.String("component", "test")}))
	logger.Info("dropped")
	logger.Warn("with attrs")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "component=test")
}

func TestFanoutHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	fanout := NewFanoutHandler().Add("file", nil, slog.NewTextHandler(&buf, nil))

	slog.New(fanout.WithGroup("grp")).Info("grouped", "key", "val")
	assert.Contains(t, buf.String(), "grp.key=val")

	assert.Same(t, fanout, fanout.WithGroup(""))
}

// errorHandler is a slog.Handler that always returns an error from Handle.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestFanoutHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	fanout := NewFanoutHandler().
		Add("broken", nil, &errorHandler{}).
		Add("file", nil, slog.NewTextHandler(&buf, nil))

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "should reach file", 0)
	err := fanout.Handle(context.Background(), r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: handler error")
	assert.Contains(t, buf.String(), "should reach file")
}

func TestSetup_GraylogLevel(t *testing.T) {
	var file, graylog bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &file, Graylog: &graylog, Level: "info", GraylogLevel: "warn"})

	m.Logger().Info("routine")
	m.Logger().Warn("attention")

	assert.Contains(t, file.String(), "routine")
	assert.NotContains(t, graylog.String(), "routine")
	assert.Contains(t, graylog.String(), "attention")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info", Provider: provider})

	m.Logger().Info("otel integrated")
	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}
