package raystream

import (
	"fmt"
	"unsafe"
)

// RayN and HitN are borrowed views over kernel-owned SoA memory, handed
// to filter and user-geometry callbacks during traversal. The kernel
// packs each field as n contiguous elements, field after field, with no
// inter-field padding (unlike the owned streams, whose per-field stride
// is rounded up to 16 bytes). The view does not own the memory and must
// not be retained past the callback invocation.

// RayN is a read-write view of a packed ray batch owned by the kernel.
type RayN struct {
	ptr unsafe.Pointer
	n   int
}

// RayNFromPointer wraps n lanes of packed kernel ray memory. Used by the
// callback marshaling layer; callers never construct one directly.
func RayNFromPointer(p unsafe.Pointer, n int) RayN {
	return RayN{ptr: p, n: n}
}

func (r RayN) checkLane(i int) {
	if i < 0 || i >= r.n {
		panic(fmt.Sprintf("raystream: lane %d out of range [0, %d)", i, r.n))
	}
}

func (r RayN) f32(field, i int) float32 {
	r.checkLane(i)
	return *(*float32)(unsafe.Add(r.ptr, (field*r.n+i)*elemSize))
}

func (r RayN) setF32(field, i int, v float32) {
	r.checkLane(i)
	*(*float32)(unsafe.Add(r.ptr, (field*r.n+i)*elemSize)) = v
}

func (r RayN) u32(field, i int) uint32 {
	r.checkLane(i)
	return *(*uint32)(unsafe.Add(r.ptr, (field*r.n+i)*elemSize))
}

func (r RayN) setU32(field, i int, v uint32) {
	r.checkLane(i)
	*(*uint32)(unsafe.Add(r.ptr, (field*r.n+i)*elemSize)) = v
}

// Len returns the number of lanes in the batch.
func (r RayN) Len() int { return r.n }

func (r RayN) Org(i int) [3]float32 {
	return [3]float32{r.f32(rayFieldOrgX, i), r.f32(rayFieldOrgY, i), r.f32(rayFieldOrgZ, i)}
}

func (r RayN) SetOrg(i int, org [3]float32) {
	r.setF32(rayFieldOrgX, i, org[0])
	r.setF32(rayFieldOrgY, i, org[1])
	r.setF32(rayFieldOrgZ, i, org[2])
}

func (r RayN) Dir(i int) [3]float32 {
	return [3]float32{r.f32(rayFieldDirX, i), r.f32(rayFieldDirY, i), r.f32(rayFieldDirZ, i)}
}

func (r RayN) SetDir(i int, dir [3]float32) {
	r.setF32(rayFieldDirX, i, dir[0])
	r.setF32(rayFieldDirY, i, dir[1])
	r.setF32(rayFieldDirZ, i, dir[2])
}

func (r RayN) TNear(i int) float32          { return r.f32(rayFieldTNear, i) }
func (r RayN) SetTNear(i int, near float32) { r.setF32(rayFieldTNear, i, near) }
func (r RayN) TFar(i int) float32           { return r.f32(rayFieldTFar, i) }
func (r RayN) SetTFar(i int, far float32)   { r.setF32(rayFieldTFar, i, far) }
func (r RayN) Time(i int) float32           { return r.f32(rayFieldTime, i) }
func (r RayN) SetTime(i int, t float32)     { r.setF32(rayFieldTime, i, t) }
func (r RayN) Mask(i int) uint32            { return r.u32(rayFieldMask, i) }
func (r RayN) SetMask(i int, m uint32)      { r.setU32(rayFieldMask, i, m) }
func (r RayN) ID(i int) uint32              { return r.u32(rayFieldID, i) }
func (r RayN) SetID(i int, id uint32)       { r.setU32(rayFieldID, i, id) }
func (r RayN) Flags(i int) uint32           { return r.u32(rayFieldFlags, i) }
func (r RayN) SetFlags(i int, fl uint32)    { r.setU32(rayFieldFlags, i, fl) }

// HitN is a read-write view of a packed hit batch owned by the kernel.
type HitN struct {
	ptr unsafe.Pointer
	n   int
}

// HitNFromPointer wraps n lanes of packed kernel hit memory.
func HitNFromPointer(p unsafe.Pointer, n int) HitN {
	return HitN{ptr: p, n: n}
}

func (h HitN) checkLane(i int) {
	if i < 0 || i >= h.n {
		panic(fmt.Sprintf("raystream: lane %d out of range [0, %d)", i, h.n))
	}
}

func (h HitN) f32(field, i int) float32 {
	h.checkLane(i)
	return *(*float32)(unsafe.Add(h.ptr, (field*h.n+i)*elemSize))
}

func (h HitN) setF32(field, i int, v float32) {
	h.checkLane(i)
	*(*float32)(unsafe.Add(h.ptr, (field*h.n+i)*elemSize)) = v
}

func (h HitN) u32(field, i int) uint32 {
	h.checkLane(i)
	return *(*uint32)(unsafe.Add(h.ptr, (field*h.n+i)*elemSize))
}

func (h HitN) setU32(field, i int, v uint32) {
	h.checkLane(i)
	*(*uint32)(unsafe.Add(h.ptr, (field*h.n+i)*elemSize)) = v
}

// Len returns the number of lanes in the batch.
func (h HitN) Len() int { return h.n }

func (h HitN) Ng(i int) [3]float32 {
	return [3]float32{h.f32(hitFieldNgX, i), h.f32(hitFieldNgY, i), h.f32(hitFieldNgZ, i)}
}

func (h HitN) SetNg(i int, ng [3]float32) {
	h.setF32(hitFieldNgX, i, ng[0])
	h.setF32(hitFieldNgY, i, ng[1])
	h.setF32(hitFieldNgZ, i, ng[2])
}

func (h HitN) U(i int) float32       { return h.f32(hitFieldU, i) }
func (h HitN) SetU(i int, u float32) { h.setF32(hitFieldU, i, u) }
func (h HitN) V(i int) float32       { return h.f32(hitFieldV, i) }
func (h HitN) SetV(i int, v float32) { h.setF32(hitFieldV, i, v) }

func (h HitN) UV(i int) [2]float32 {
	return [2]float32{h.f32(hitFieldU, i), h.f32(hitFieldV, i)}
}

func (h HitN) PrimID(i int) uint32        { return h.u32(hitFieldPrimID, i) }
func (h HitN) SetPrimID(i int, id uint32) { h.setU32(hitFieldPrimID, i, id) }
func (h HitN) GeomID(i int) uint32        { return h.u32(hitFieldGeomID, i) }
func (h HitN) SetGeomID(i int, id uint32) { h.setU32(hitFieldGeomID, i, id) }
func (h HitN) InstID(i int) uint32        { return h.u32(hitFieldInstID, i) }
func (h HitN) SetInstID(i int, id uint32) { h.setU32(hitFieldInstID, i, id) }

// Valid reports whether lane i holds a hit.
func (h HitN) Valid(i int) bool { return h.GeomID(i) != InvalidID }
