package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileRotationFill(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   FileRotation
		want FileRotation
	}{
		{
			name: "zero value fills everything",
			in:   FileRotation{},
			want: FileRotation{MaxSizeMB: 64, MaxBackups: 3, MaxAgeDays: 14},
		},
		{
			name: "explicit values survive",
			in:   FileRotation{MaxSizeMB: 10, MaxBackups: 2, MaxAgeDays: 1, NoCompress: true},
			want: FileRotation{MaxSizeMB: 10, MaxBackups: 2, MaxAgeDays: 1, NoCompress: true},
		},
		{
			name: "partial fill",
			in:   FileRotation{MaxAgeDays: 3},
			want: FileRotation{MaxSizeMB: 64, MaxBackups: 3, MaxAgeDays: 3},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.fill(); got != tt.want {
				t.Errorf("fill(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.log")
	w := NewFileWriter(path)

	line := []byte("device created\n")
	n, err := w.Write(line)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(line) {
		t.Fatalf("Write wrote %d bytes, want %d", n, len(line))
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(line) {
		t.Errorf("file holds %q, want %q", got, line)
	}
}

func TestFileWriterCustomRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.log")
	w := NewFileWriterWithRotation(path, FileRotation{MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})

	if _, err := w.Write([]byte("scene committed\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}
