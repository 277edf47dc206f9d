package rtkernel

import (
	"errors"
	"fmt"
)

// KernelError represents an error from a native kernel operation.
// It carries the operation that failed, the kernel's error code, and a
// descriptive message, and wraps one of the sentinel errors below so
// callers can branch with errors.Is.
type KernelError struct {
	Op      string // Operation that failed (e.g. "NewDevice", "Commit")
	Code    int    // Error code from the kernel (0 = success)
	Message string // Human-readable error message
	Err     error  // Wrapped sentinel (if any)
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rtkernel %s: %s (code: %d): %v", e.Op, e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("rtkernel %s: %s (code: %d)", e.Op, e.Message, e.Code)
}

// Unwrap returns the wrapped sentinel, enabling errors.Is and errors.As.
func (e *KernelError) Unwrap() error {
	return e.Err
}

// Sentinel errors mirroring the kernel's error taxonomy.
var (
	// ErrUnknown indicates an unspecified kernel failure.
	ErrUnknown = errors.New("unknown kernel error")

	// ErrInvalidArgument indicates an invalid argument was passed to a
	// kernel entry point.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation indicates the operation is not allowed for
	// the specified object (e.g. a query before commit).
	ErrInvalidOperation = errors.New("operation not allowed for the specified object")

	// ErrOutOfMemory indicates the kernel could not allocate memory to
	// complete the operation. Not retried: retrying without releasing
	// memory first is pointless.
	ErrOutOfMemory = errors.New("not enough memory to complete the operation")

	// ErrUnsupportedCPU indicates the CPU lacks the lowest instruction
	// set the kernel was compiled for.
	ErrUnsupportedCPU = errors.New("CPU does not support the kernel's minimum ISA")

	// ErrCancelled indicates the operation was cancelled by a memory or
	// progress monitor callback.
	ErrCancelled = errors.New("operation cancelled by a monitor callback")

	// ErrKernelUnavailable indicates the binding was built without the
	// native library (stub backend) and the requested operation needs
	// the real kernel.
	ErrKernelUnavailable = errors.New("native kernel library not linked")

	// ErrClosed indicates use of a handle after Close.
	ErrClosed = errors.New("handle already closed")
)

// Kernel error codes, matching the native library's enum.
const (
	codeNone             = 0
	codeUnknown          = 1
	codeInvalidArgument  = 2
	codeInvalidOperation = 3
	codeOutOfMemory      = 4
	codeUnsupportedCPU   = 5
	codeCancelled        = 6
)

// errFromCode builds a KernelError for a non-zero kernel error code.
// Returns nil for code 0.
func errFromCode(op string, code int, msg string) error {
	if code == codeNone {
		return nil
	}
	var sentinel error
	switch code {
	case codeInvalidArgument:
		sentinel = ErrInvalidArgument
	case codeInvalidOperation:
		sentinel = ErrInvalidOperation
	case codeOutOfMemory:
		sentinel = ErrOutOfMemory
	case codeUnsupportedCPU:
		sentinel = ErrUnsupportedCPU
	case codeCancelled:
		sentinel = ErrCancelled
	default:
		sentinel = ErrUnknown
	}
	if msg == "" {
		msg = sentinel.Error()
	}
	return &KernelError{Op: op, Code: code, Message: msg, Err: sentinel}
}
