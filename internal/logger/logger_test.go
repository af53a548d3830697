package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor() *bool {
	b := false
	return &b
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"staging uses pretty", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			log.Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_BufferIsNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Writer: &buf})
	log.Info("saved", "content_id", 3)

	assert.NotContains(t, buf.String(), "\033[")
}

func TestNew_ForcedColor(t *testing.T) {
	var buf bytes.Buffer
	on := true
	log := New(Config{Format: "pretty", Writer: &buf, Color: &on})
	log.Warn("slow")

	assert.Contains(t, buf.String(), colorYellow+"WRN"+colorReset)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestPrettyHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Writer: &buf, Color: noColor()})

	log.With("user_id", int64(42)).Info("album flushed", "items", 3, "caption", "at the sea")

	line := buf.String()
	assert.Contains(t, line, "INF album flushed")
	assert.Contains(t, line, "user_id=42 items=3")
	assert.Contains(t, line, `caption="at the sea"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestPrettyHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Writer: &buf, Color: noColor()})

	log.WithGroup("telegram").Info("send", "chat_id", 7)

	assert.Contains(t, buf.String(), "telegram.chat_id=7")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Level: slog.LevelWarn, Writer: &buf, Color: noColor()})

	log.Info("hidden")
	log.Debug("hidden too")
	log.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "ERR shown")
}

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Environment: "production", Writer: &buf})

	log.With("content_id", 9).Error("delete failed", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"content_id":9`)
}

func TestContext_RoundTrip(t *testing.T) {
	fallback := Nop().Logger
	scoped := fallback.With("update_id", 5)

	ctx := NewContext(context.Background(), scoped)

	require.Same(t, scoped, FromContext(ctx, fallback))
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}
