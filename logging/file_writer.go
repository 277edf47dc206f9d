package logging

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileRotation bounds the disk footprint of the log file. The zero
// value rotates at 64 MB, keeps 3 backups for 14 days, and gzips
// rotated files.
type FileRotation struct {
	// MaxSizeMB is the size in megabytes at which the file rotates.
	MaxSizeMB int

	// MaxBackups is how many rotated files to keep.
	MaxBackups int

	// MaxAgeDays deletes rotated files older than this many days.
	MaxAgeDays int

	// NoCompress leaves rotated files unzipped.
	NoCompress bool
}

// fill replaces zero fields with the package defaults.
func (r FileRotation) fill() FileRotation {
	if r.MaxSizeMB == 0 {
		r.MaxSizeMB = 64
	}
	if r.MaxBackups == 0 {
		r.MaxBackups = 3
	}
	if r.MaxAgeDays == 0 {
		r.MaxAgeDays = 14
	}
	return r
}

// NewFileWriter creates a rotating file WriteSyncer with the default
// rotation bounds.
func NewFileWriter(path string) zapcore.WriteSyncer {
	return NewFileWriterWithRotation(path, FileRotation{})
}

// NewFileWriterWithRotation creates a rotating file WriteSyncer with
// custom bounds. Zero fields keep their defaults.
func NewFileWriterWithRotation(path string, rotation FileRotation) zapcore.WriteSyncer {
	r := rotation.fill()
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    r.MaxSizeMB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
		Compress:   !r.NoCompress,
	})
}
