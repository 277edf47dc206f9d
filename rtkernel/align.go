package rtkernel

import (
	"unsafe"

	"github.com/lightfold/raykit/raystream"
)

// alignTo16 hands the kernel a 16-byte-aligned pointer for v. Stream
// and packet types come out of the aligned arena, but single rays,
// hit records, and valid masks are plain Go values with no alignment
// guarantee beyond their field types. When v is already aligned it is
// passed through; otherwise the value is copied into aligned scratch
// and the returned writeback copies the kernel's mutations back.
func alignTo16[T any](v *T) (*T, func()) {
	if uintptr(unsafe.Pointer(v))%raystream.FieldAlign == 0 {
		return v, func() {}
	}
	scratch := raystream.AlignedBytes(int(unsafe.Sizeof(*v)))
	p := (*T)(unsafe.Pointer(&scratch[0]))
	*p = *v
	return p, func() { *v = *p }
}
