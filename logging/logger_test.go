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

func newBufferLogger(t *testing.T, isDev bool, level zapcore.Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	core := NewMultiCoreWithWriters(level, zapcore.AddSync(os.Stdout), zapcore.AddSync(&buf), isDev)
	zapLogger := zap.New(core)
	return &Logger{
		zap:   zapLogger,
		sugar: zapLogger.Sugar(),
	}, &buf
}

func TestNewLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewLogger(false, path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hello")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing entry: %q", string(data))
	}
}

func TestNewLoggerHonorsLevelEnv(t *testing.T) {
	t.Setenv(LevelEnvVar, "error")
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewLogger(false, path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("suppressed by env override")
	logger.Error("kept")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Errorf("info entry should be filtered at error level: %q", string(data))
	}
	if !strings.Contains(string(data), "kept") {
		t.Errorf("error entry missing: %q", string(data))
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	logger, buf := newBufferLogger(t, true, zapcore.DebugLevel)

	logger.Info("structured entry", zap.Int("lanes", 16))
	logger.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("file output not JSON: %v\n%s", err, buf.String())
	}
	if entry[FieldMessage] != "structured entry" {
		t.Errorf("message field = %v", entry[FieldMessage])
	}
	if entry["lanes"] != float64(16) {
		t.Errorf("lanes field = %v, want 16", entry["lanes"])
	}
	if entry[FieldLevel] != "info" {
		t.Errorf("level field = %v, want info", entry[FieldLevel])
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, false, zapcore.InfoLevel)

	logger.Debug("too quiet to pass")
	logger.Info("loud enough")
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Error("debug entry should be filtered at info level")
	}
	if !strings.Contains(out, "loud enough") {
		t.Error("info entry missing")
	}
}

func TestSugaredVariants(t *testing.T) {
	logger, buf := newBufferLogger(t, false, zapcore.DebugLevel)

	logger.Infow("key-value entry", "rays", 64)
	logger.Infof("formatted %d", 7)
	logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "key-value entry") || !strings.Contains(out, "\"rays\":64") {
		t.Errorf("Infow output wrong: %s", out)
	}
	if !strings.Contains(out, "formatted 7") {
		t.Errorf("Infof output wrong: %s", out)
	}
}

func TestWithAddsPersistentFields(t *testing.T) {
	logger, buf := newBufferLogger(t, false, zapcore.DebugLevel)

	child := logger.With(zap.String("scene_id", "abc"))
	child.Info("first")
	child.Info("second")
	child.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "\"scene_id\":\"abc\"") {
			t.Errorf("line missing persistent field: %s", line)
		}
	}
}

func TestNamedAppearsInOutput(t *testing.T) {
	logger, buf := newBufferLogger(t, false, zapcore.DebugLevel)

	logger.Named("rtkernel").Info("named entry")
	logger.Sync()

	if !strings.Contains(buf.String(), "\"source\":\"rtkernel\"") {
		t.Errorf("logger name missing from output: %s", buf.String())
	}
}

func TestSyncNilSafe(t *testing.T) {
	var logger *Logger
	if err := logger.Sync(); err != nil {
		t.Errorf("nil logger Sync should be a no-op, got %v", err)
	}
}
