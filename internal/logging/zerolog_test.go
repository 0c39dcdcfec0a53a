package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNewDispatcherLogger(t *testing.T) {
	dl := NewDispatcherLogger(zerolog.New(&bytes.Buffer{}))
	require.NotNil(t, dl)
}

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log   func(dl *DispatcherLogger)
		level string
		msg   string
		key   string
		value any
	}{
		{
			name:  "debug",
			log:   func(dl *DispatcherLogger) { dl.Debug("queued", "command", ":SPRING:SETUP:", "depth", 3) },
			level: "debug",
			msg:   "queued",
			key:   "depth",
			value: float64(3),
		},
		{
			name:  "info",
			log:   func(dl *DispatcherLogger) { dl.Info("handled", "status", "ok") },
			level: "info",
			msg:   "handled",
			key:   "status",
			value: "ok",
		},
		{
			name:  "error",
			log:   func(dl *DispatcherLogger) { dl.Error("handler failed", "code", 500) },
			level: "error",
			msg:   "handler failed",
			key:   "code",
			value: float64(500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			dl := NewDispatcherLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
			tt.log(dl)

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.msg, entry["message"])
			assert.Equal(t, tt.value, entry[tt.key])
		})
	}
}

func TestDispatcherLogger_OddKeyValuesIgnored(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf))

	dl.Info("simple message", "dangling", 42, "orphan")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "simple message", entry["message"])
	assert.NotContains(t, entry, "orphan")
}

func TestDispatcherLogger_ImplementsInterface(t *testing.T) {
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = NewDispatcherLogger(zerolog.Nop())
}

func TestNewComponentLogger(t *testing.T) {
	var out, graylog bytes.Buffer
	logger := NewComponentLogger(&out, &graylog, "warn", "database")

	logger.Info().Msg("filtered")
	logger.Warn().Str("driver", "sqlite").Msg("falling back")

	assert.NotContains(t, out.String(), "filtered")
	assert.Contains(t, out.String(), "falling back")

	entry := decodeLine(t, &graylog)
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "sqlite", entry["driver"])
}

func TestParseZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseZerologLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseZerologLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseZerologLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseZerologLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseZerologLevel("bogus"))
}

func TestDispatcherLogger_ErrorValues(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf))

	dl.Error("handler failed", "error", errors.New("ride height must be positive"), 7, "skipped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ride height must be positive", entry["error"])
	assert.Len(t, entry, 3) // level, error, message
}
