package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGlobalDefaultsToNop(t *testing.T) {
	if L() == nil {
		t.Fatal("L() should never return nil")
	}
	// The default must be safe to use without initialization.
	L().Info("message into the void")
}

func TestReplaceGlobal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceGlobal(zap.New(core))
	defer restore()

	L().Info("captured", zap.String("key", "value"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("captured %d entries, want 1", len(entries))
	}
	if entries[0].Message != "captured" {
		t.Errorf("message = %q, want %q", entries[0].Message, "captured")
	}
}

func TestReplaceGlobalRestores(t *testing.T) {
	before := L()
	restore := ReplaceGlobal(zap.NewNop())
	restore()
	if L() != before {
		t.Error("restore should reinstall the previous logger")
	}
}
