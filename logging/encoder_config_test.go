package logging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestEncoderConfigFieldKeys(t *testing.T) {
	for _, tt := range []struct {
		name string
		cfg  zapcore.EncoderConfig
	}{
		{"json", NewEncoderConfig()},
		{"console", NewConsoleEncoderConfig()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			keys := map[string]string{
				FieldTimestamp:  tt.cfg.TimeKey,
				FieldLevel:      tt.cfg.LevelKey,
				FieldSource:     tt.cfg.NameKey,
				FieldMessage:    tt.cfg.MessageKey,
				FieldStacktrace: tt.cfg.StacktraceKey,
				FieldCaller:     tt.cfg.CallerKey,
			}
			for want, got := range keys {
				if got != want {
					t.Errorf("field key = %q, want %q", got, want)
				}
			}
			if tt.cfg.EncodeLevel == nil || tt.cfg.EncodeTime == nil {
				t.Error("level and time encoders must be set")
			}
		})
	}
}

func TestEncoderConfigProducesJSON(t *testing.T) {
	enc := zapcore.NewJSONEncoder(NewEncoderConfig())
	entry := zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Message: "commit finished",
	}

	buf, err := enc.EncodeEntry(entry, nil)
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if fields[FieldMessage] != "commit finished" {
		t.Errorf("%s = %v, want %q", FieldMessage, fields[FieldMessage], "commit finished")
	}
	if fields[FieldLevel] != "info" {
		t.Errorf("%s = %v, want lowercase %q", FieldLevel, fields[FieldLevel], "info")
	}
	ts, _ := fields[FieldTimestamp].(string)
	if !strings.HasPrefix(ts, "2026-03-01T09:00:00") {
		t.Errorf("%s = %q, want ISO8601", FieldTimestamp, ts)
	}
}

// appendRecorder captures AppendString calls; the embedded interface
// covers the methods shortTimeEncoder never invokes.
type appendRecorder struct {
	zapcore.PrimitiveArrayEncoder
	last string
}

func (r *appendRecorder) AppendString(s string) { r.last = s }

func TestShortTimeEncoder(t *testing.T) {
	var rec appendRecorder
	shortTimeEncoder(time.Date(2026, 3, 1, 9, 5, 7, 250_000_000, time.UTC), &rec)
	if rec.last != "09:05:07.250" {
		t.Errorf("shortTimeEncoder wrote %q, want %q", rec.last, "09:05:07.250")
	}
}
