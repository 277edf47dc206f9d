package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func decodeJSONLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &fields); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	return fields
}

func TestMultiCoreDevelopmentSplit(t *testing.T) {
	var console, file bytes.Buffer
	core := NewMultiCoreWithWriters(zapcore.DebugLevel, zapcore.AddSync(&console), zapcore.AddSync(&file), true)

	log := zap.New(core)
	log.Info("trace complete", zap.Int("rays", 4096))
	log.Sync()

	// File side is always JSON.
	fields := decodeJSONLine(t, &file)
	if fields[FieldMessage] != "trace complete" {
		t.Errorf("%s = %v, want %q", FieldMessage, fields[FieldMessage], "trace complete")
	}
	if fields["rays"] != float64(4096) {
		t.Errorf("rays = %v, want 4096", fields["rays"])
	}

	// Console side is human-readable in development mode.
	out := console.String()
	if out == "" {
		t.Fatal("no console output")
	}
	if json.Valid([]byte(strings.TrimSpace(out))) {
		t.Errorf("development console output should not be JSON: %s", out)
	}
}

func TestMultiCoreProductionIsAllJSON(t *testing.T) {
	var console, file bytes.Buffer
	core := NewMultiCoreWithWriters(zapcore.InfoLevel, zapcore.AddSync(&console), zapcore.AddSync(&file), false)

	zap.New(core).Info("trace complete")

	decodeJSONLine(t, &console)
	decodeJSONLine(t, &file)
}

func TestMultiCoreLevelFilter(t *testing.T) {
	var console, file bytes.Buffer
	core := NewMultiCoreWithWriters(zapcore.WarnLevel, zapcore.AddSync(&console), zapcore.AddSync(&file), true)

	log := zap.New(core)
	log.Debug("dropped")
	log.Info("dropped")
	if console.Len()+file.Len() != 0 {
		t.Fatalf("sub-threshold entries leaked: %s%s", console.String(), file.String())
	}

	log.Warn("kept")
	if console.Len() == 0 || file.Len() == 0 {
		t.Error("warn entry should reach both sinks")
	}
}

func TestNewMultiCoreWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raykit.log")

	core, err := NewMultiCore(zapcore.InfoLevel, path, false)
	if err != nil {
		t.Fatalf("NewMultiCore: %v", err)
	}

	log := zap.New(core)
	log.Info("device created", zap.String("backend", "stub"))
	log.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &fields); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, content)
	}
	if fields["backend"] != "stub" {
		t.Errorf("backend = %v, want %q", fields["backend"], "stub")
	}
}

func TestNewMultiCoreBadPath(t *testing.T) {
	if _, err := NewMultiCore(zapcore.InfoLevel, "/proc/no/such/dir/raykit.log", true); err == nil {
		t.Fatal("expected error for unwritable log path")
	}
}
