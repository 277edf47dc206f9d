package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	fallback := zapcore.InfoLevel

	for _, tt := range []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"Warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"  debug  ", zapcore.DebugLevel},
		{"", fallback},
		{"loud", fallback},
	} {
		if got := ParseLogLevelString(tt.in, fallback); got != tt.want {
			t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevelFromEnv(t *testing.T) {
	const envVar = "RAYKIT_TEST_LOG_LEVEL"

	t.Run("set", func(t *testing.T) {
		t.Setenv(envVar, "error")
		if got := ParseLogLevel(envVar, zapcore.InfoLevel); got != zapcore.ErrorLevel {
			t.Errorf("got %v, want %v", got, zapcore.ErrorLevel)
		}
	})

	t.Run("unset falls back", func(t *testing.T) {
		if got := ParseLogLevel(envVar, zapcore.WarnLevel); got != zapcore.WarnLevel {
			t.Errorf("got %v, want %v", got, zapcore.WarnLevel)
		}
	})

	t.Run("garbage falls back", func(t *testing.T) {
		t.Setenv(envVar, "eleven")
		if got := ParseLogLevel(envVar, zapcore.DebugLevel); got != zapcore.DebugLevel {
			t.Errorf("got %v, want %v", got, zapcore.DebugLevel)
		}
	})
}
