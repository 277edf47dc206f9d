package logging

import (
	"sync"

	"go.uber.org/zap"
)

// The package-level logger lets library code log without threading a
// *Logger through every constructor. It defaults to a no-op logger so
// importing the library stays silent until the application calls
// ReplaceGlobal.

var (
	globalMu sync.RWMutex
	global   = zap.NewNop()
)

// L returns the package-level zap logger. Safe for concurrent use.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// ReplaceGlobal installs l as the package-level logger and returns a
// function that restores the previous one, for use in tests.
func ReplaceGlobal(l *zap.Logger) func() {
	globalMu.Lock()
	prev := global
	global = l
	globalMu.Unlock()

	return func() {
		globalMu.Lock()
		global = prev
		globalMu.Unlock()
	}
}
