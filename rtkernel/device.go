package rtkernel

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/cpu"

	"github.com/lightfold/raykit/logging"
)

// Device owns one kernel instance. Every scene, geometry, and buffer
// is created through a device and must not outlive it. A Device is safe
// for concurrent use.
type Device struct {
	mu     sync.Mutex
	h      handle
	id     string
	config Config
	log    *zap.Logger
	closed bool
}

// NewDevice creates a device with the default configuration.
func NewDevice() (*Device, error) {
	return NewDeviceWithConfig(DefaultConfig())
}

// NewDeviceWithConfig creates a device from cfg. On x86 the kernel
// requires SSE2; creation fails with ErrUnsupportedCPU on hardware
// without it.
func NewDeviceWithConfig(cfg Config) (*Device, error) {
	if err := checkCPU(); err != nil {
		return nil, err
	}

	h, err := kernelNewDevice(cfg.configString())
	if err != nil {
		return nil, err
	}

	d := &Device{
		h:      h,
		id:     uuid.NewString(),
		config: cfg,
		log:    logging.L().Named("rtkernel"),
	}

	// Asynchronous kernel error reports go to the device logger.
	log := d.log
	id := d.id
	setDeviceError(h, func(code int, msg string) {
		log.Error("kernel error",
			zap.String("device_id", id),
			zap.Int("code", code),
			zap.String("message", msg),
		)
	})
	kernelInstallErrorHandler(h)

	d.log.Info("device created",
		zap.String("device_id", d.id),
		zap.String("backend", kernelBackend()),
		zap.String("config", cfg.configString()),
	)

	// Reclaim the native handle if the caller leaks the device.
	runtime.SetFinalizer(d, func(d *Device) { _ = d.Close() })
	return d, nil
}

// Backend reports which binding implementation this build carries:
// the native library or the pure-Go stub.
func Backend() string {
	return kernelBackend()
}

// checkCPU verifies the ISA baseline the kernel is compiled for.
func checkCPU() error {
	if runtime.GOARCH == "386" || runtime.GOARCH == "amd64" {
		if !cpu.X86.HasSSE2 {
			return errFromCode("device.new", codeUnsupportedCPU, "kernel requires SSE2")
		}
	}
	return nil
}

// ID returns the per-instance identifier used in log fields.
func (d *Device) ID() string { return d.id }

// Config returns the configuration the device was created with.
func (d *Device) Config() Config { return d.config }

// Error returns and clears the device's sticky error, or nil when no
// kernel call has failed since the last check.
func (d *Device) Error() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return kernelDeviceError(d.h)
}

// Close releases the kernel device. Close is idempotent; the first
// call wins and later calls return nil.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	runtime.SetFinalizer(d, nil)
	setDeviceError(d.h, nil)
	kernelReleaseDevice(d.h)
	d.h = 0
	d.log.Info("device released", zap.String("device_id", d.id))
	return nil
}

// raw returns the kernel handle, or an error once the device is
// closed. Callers hold the returned handle only for the duration of
// one kernel call.
func (d *Device) raw() (handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	return d.h, nil
}
