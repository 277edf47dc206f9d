package rtkernel

import (
	"errors"
	"testing"
)

func TestNewDevice(t *testing.T) {
	dev, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer dev.Close()

	if dev.ID() == "" {
		t.Error("device should carry a non-empty instance id")
	}
	if err := dev.Error(); err != nil {
		t.Errorf("fresh device should have no pending error, got %v", err)
	}
}

func TestDeviceCloseIdempotent(t *testing.T) {
	dev, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}

	if err := dev.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestDeviceUseAfterClose(t *testing.T) {
	dev, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	dev.Close()

	if err := dev.Error(); !errors.Is(err, ErrClosed) {
		t.Errorf("Error after Close = %v, want ErrClosed", err)
	}
	if _, err := dev.NewScene(); !errors.Is(err, ErrClosed) {
		t.Errorf("NewScene after Close = %v, want ErrClosed", err)
	}
	if _, err := dev.NewGeometry(GeometryTriangle); !errors.Is(err, ErrClosed) {
		t.Errorf("NewGeometry after Close = %v, want ErrClosed", err)
	}
	if _, err := dev.NewBuffer(64); !errors.Is(err, ErrClosed) {
		t.Errorf("NewBuffer after Close = %v, want ErrClosed", err)
	}
}

func TestDeviceConfigRoundTrip(t *testing.T) {
	cfg := Config{Verbosity: 0, Threads: 2}
	dev, err := NewDeviceWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewDeviceWithConfig: %v", err)
	}
	defer dev.Close()

	if got := dev.Config(); got != cfg {
		t.Errorf("Config() = %+v, want %+v", got, cfg)
	}
}

func TestBackendReported(t *testing.T) {
	if Backend() == "" {
		t.Error("Backend() should name the linked implementation")
	}
}

func TestDeviceIDsUnique(t *testing.T) {
	a, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer a.Close()
	b, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer b.Close()

	if a.ID() == b.ID() {
		t.Error("two devices should not share an instance id")
	}
}

func TestDeviceErrorSinkLifecycle(t *testing.T) {
	dev, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	h, err := dev.raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}

	if lookupDeviceError(h) == nil {
		t.Error("open device should have an error report sink registered")
	}

	dev.Close()
	if lookupDeviceError(h) != nil {
		t.Error("Close should unregister the error report sink")
	}
}
