package raystream

// InvalidID is the sentinel the kernel writes for "no geometry", "no
// primitive" and "no instance". A hit lane is valid exactly when its
// geometry id differs from this value.
const InvalidID uint32 = 0xFFFFFFFF

// SoARay is the per-lane accessor surface shared by the ray containers
// with SoA layout: the heap-allocated RayNp stream and the kernel-owned
// RayN callback view. The fixed-width packets expose their lanes as
// plain arrays instead.
//
// Lane indices are checked by every implementation; an index outside
// [0, Len) panics and never touches adjacent field memory.
type SoARay interface {
	// Len returns the number of lanes.
	Len() int

	Org(i int) [3]float32
	SetOrg(i int, org [3]float32)

	Dir(i int) [3]float32
	SetDir(i int, dir [3]float32)

	TNear(i int) float32
	SetTNear(i int, tnear float32)

	TFar(i int) float32
	SetTFar(i int, tfar float32)

	Time(i int) float32
	SetTime(i int, t float32)

	Mask(i int) uint32
	SetMask(i int, mask uint32)

	ID(i int) uint32
	SetID(i int, id uint32)

	Flags(i int) uint32
	SetFlags(i int, flags uint32)
}

// SoAHit is the per-lane accessor surface shared by every hit container
// with SoA layout.
type SoAHit interface {
	// Len returns the number of lanes.
	Len() int

	// Ng returns the unnormalized geometry normal of lane i.
	Ng(i int) [3]float32
	SetNg(i int, ng [3]float32)

	U(i int) float32
	SetU(i int, u float32)

	V(i int) float32
	SetV(i int, v float32)

	UV(i int) [2]float32

	PrimID(i int) uint32
	SetPrimID(i int, id uint32)

	GeomID(i int) uint32
	SetGeomID(i int, id uint32)

	InstID(i int) uint32
	SetInstID(i int, id uint32)
}

// HitValid reports whether lane i of h holds a hit.
func HitValid(h SoAHit, i int) bool {
	return h.GeomID(i) != InvalidID
}
