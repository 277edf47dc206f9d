package raystream

import "unsafe"

// FieldAlign is the byte alignment the kernel requires for every field of
// a SoA stream, and therefore the granularity of the per-field stride.
const FieldAlign = 16

// elemSize is the width of every stream field element. All fields are
// either float32 or uint32.
const elemSize = 4

// fieldStride returns the byte size reserved for one field of a stream of
// n lanes: n 4-byte elements rounded up to a multiple of FieldAlign.
//
// Both the arena size (fieldCount * fieldStride(n)) and every per-field
// offset (fieldIndex * fieldStride(n)) derive from this function, so the
// allocation and the pointer table can never disagree about the layout.
func fieldStride(n int) int {
	return (n*elemSize + FieldAlign - 1) &^ (FieldAlign - 1)
}

// arena is a single contiguous, zero-initialized allocation whose base
// address is a multiple of FieldAlign. It backs all fields of one stream
// and is reclaimed by the garbage collector when the owning stream is
// dropped; there is no manual free path.
type arena struct {
	// raw is the backing allocation, oversized by up to FieldAlign-1
	// bytes so an aligned window always fits. Kept so the memory stays
	// reachable while views into data exist.
	raw []byte

	// data is the aligned window of exactly the requested size.
	data []byte
}

// newArena allocates size bytes of zeroed memory aligned to FieldAlign.
// Allocation failure is fatal: the Go runtime aborts on out-of-memory,
// which matches the contract that a stream must never be handed to the
// kernel partially allocated.
func newArena(size int) *arena {
	if size < FieldAlign {
		// A zero-length stream still needs a valid base address for
		// its pointer table.
		size = FieldAlign
	}
	raw := make([]byte, size+FieldAlign-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int(-base) & (FieldAlign - 1)
	return &arena{
		raw:  raw,
		data: raw[off : off+size : off+size],
	}
}

// floats reinterprets the n elements starting at byte offset off as a
// float32 slice. The offset must come from fieldStride so the result is
// aligned and disjoint from every other field.
func (a *arena) floats(off, n int) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.data[off])), n)
}

// uints is the uint32 counterpart of floats.
func (a *arena) uints(off, n int) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&a.data[off])), n)
}

// fieldPtr returns the raw address of the field starting at byte offset
// off. Used only when building the pointer tables for the kernel.
func (a *arena) fieldPtr(off int) unsafe.Pointer {
	return unsafe.Pointer(&a.data[off])
}

// AlignedBytes returns a zeroed byte slice of the given size whose base
// address is a multiple of FieldAlign, padded up to a multiple of
// FieldAlign. The kernel requires this alignment for every shared data
// buffer, not just for ray streams.
func AlignedBytes(size int) []byte {
	padded := (size + FieldAlign - 1) &^ (FieldAlign - 1)
	return newArena(padded).data
}
