package logging

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// LevelEnvVar overrides the logger threshold when set. Accepted
// values: debug, info, warn, warning, error, fatal.
const LevelEnvVar = "RAYKIT_LOG_LEVEL"

var levelNames = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
	"fatal":   zapcore.FatalLevel,
}

// ParseLogLevel reads a level name from the named environment
// variable, falling back to defaultLevel when it is unset or not a
// known level name.
func ParseLogLevel(envVar string, defaultLevel zapcore.Level) zapcore.Level {
	return ParseLogLevelString(os.Getenv(envVar), defaultLevel)
}

// ParseLogLevelString parses a level name case-insensitively.
func ParseLogLevelString(name string, defaultLevel zapcore.Level) zapcore.Level {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return defaultLevel
}
