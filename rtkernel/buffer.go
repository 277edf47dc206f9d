package rtkernel

import (
	"unsafe"

	"github.com/lightfold/raykit/raystream"
)

// bufferPad is extra readable space past the last element. The kernel
// fetches whole 16-byte blocks, so the final element of every buffer
// must be over-allocated by this much.
const bufferPad = 16

// Buffer is a 16-byte aligned data block shared with the kernel.
// Geometry vertex and index data lives in Buffers; the kernel reads
// the memory directly, without copying, so a Buffer must stay alive as
// long as any geometry references it. Geometry.SetSharedBuffer retains
// the reference for you.
type Buffer struct {
	data []byte
	size int
}

// NewBuffer allocates a zeroed buffer of byteSize bytes, aligned to
// raystream.FieldAlign and padded so the kernel can read the last
// element as a full 16-byte block.
func (d *Device) NewBuffer(byteSize int) (*Buffer, error) {
	if byteSize < 0 {
		return nil, errFromCode("buffer.new", codeInvalidArgument, "negative buffer size")
	}
	if _, err := d.raw(); err != nil {
		return nil, err
	}
	return &Buffer{
		data: raystream.AlignedBytes(byteSize + bufferPad),
		size: byteSize,
	}, nil
}

// Len returns the usable size in bytes, excluding padding.
func (b *Buffer) Len() int { return b.size }

// Bytes returns the usable byte range.
func (b *Buffer) Bytes() []byte { return b.data[:b.size] }

// Float32s reinterprets the buffer as float32 elements.
func (b *Buffer) Float32s() []float32 {
	n := b.size / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), n)
}

// Uint32s reinterprets the buffer as uint32 elements.
func (b *Buffer) Uint32s() []uint32 {
	n := b.size / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b.data[0])), n)
}

// Vec3s reinterprets the buffer as packed [3]float32 elements, the
// layout of FormatFloat3 vertex data.
func (b *Buffer) Vec3s() [][3]float32 {
	n := b.size / 12
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*[3]float32)(unsafe.Pointer(&b.data[0])), n)
}

// ptr returns the base address handed to the kernel.
func (b *Buffer) ptr() unsafe.Pointer {
	return unsafe.Pointer(&b.data[0])
}
