package raystream

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// PacketWidth is the lane count of the fixed-size packet types.
const PacketWidth = 4

// Lane activity values for the packet query entry points. The kernel
// processes only active lanes and leaves hit data of inactive lanes
// untouched.
const (
	LaneActive   int32 = -1
	LaneInactive int32 = 0
)

// ValidMask4 marks which lanes of a packet take part in a query.
type ValidMask4 = [PacketWidth]int32

// AllActive4 returns a mask with every packet lane active.
func AllActive4() ValidMask4 {
	return ValidMask4{LaneActive, LaneActive, LaneActive, LaneActive}
}

// Ray4 is a packet of 4 rays. The layout is the fixed-width instance of
// the same SoA field-order contract the streams follow: one array per
// field, fields in declared order.
type Ray4 struct {
	OrgX, OrgY, OrgZ [PacketWidth]float32
	TNear            [PacketWidth]float32
	DirX, DirY, DirZ [PacketWidth]float32
	Time             [PacketWidth]float32
	TFar             [PacketWidth]float32
	Mask             [PacketWidth]uint32
	ID               [PacketWidth]uint32
	Flags            [PacketWidth]uint32
}

// Hit4 is a packet of 4 hit records.
type Hit4 struct {
	NgX, NgY, NgZ [PacketWidth]float32
	U, V          [PacketWidth]float32
	PrimID        [PacketWidth]uint32
	GeomID        [PacketWidth]uint32
	InstID        [PacketWidth]uint32
}

// RayHit4 pairs a ray packet with a hit packet.
type RayHit4 struct {
	Ray Ray4
	Hit Hit4
}

// NewRayHit4 returns a 16-byte-aligned packet holding the given rays,
// with every hit lane reset to InvalidID. The kernel's packet entry
// points require this alignment, which Go does not guarantee for plain
// composite literals, so packets handed to a query must come from here.
func NewRayHit4(rays [PacketWidth]Ray) *RayHit4 {
	p := alignedRayHit4()
	for i, r := range rays {
		p.Ray.SetRay(i, r)
	}
	resetHit4(&p.Hit)
	return p
}

// NewRay4 returns a 16-byte-aligned ray packet from per-lane origins and
// directions, each lane covering [0, +Inf) with the mask fully open.
func NewRay4(org, dir [PacketWidth][3]float32) *Ray4 {
	p := alignedRay4()
	inf := math32.Inf(1)
	for i := 0; i < PacketWidth; i++ {
		p.SetRay(i, Segment(org[i], dir[i], 0, inf))
	}
	return p
}

// alignedRayHit4 carves a zeroed RayHit4 out of an aligned arena.
func alignedRayHit4() *RayHit4 {
	mem := newArena(int(unsafe.Sizeof(RayHit4{})))
	return (*RayHit4)(mem.fieldPtr(0))
}

func alignedRay4() *Ray4 {
	mem := newArena(int(unsafe.Sizeof(Ray4{})))
	return (*Ray4)(mem.fieldPtr(0))
}

func resetHit4(h *Hit4) {
	for i := 0; i < PacketWidth; i++ {
		h.PrimID[i] = InvalidID
		h.GeomID[i] = InvalidID
		h.InstID[i] = InvalidID
	}
}

func checkLane4(i int) {
	if i < 0 || i >= PacketWidth {
		panic("raystream: packet lane out of range")
	}
}

// Len returns the packet width.
func (r *Ray4) Len() int { return PacketWidth }

// SetRay overwrites lane i with all fields of ray.
func (r *Ray4) SetRay(i int, ray Ray) {
	checkLane4(i)
	r.OrgX[i] = ray.OrgX
	r.OrgY[i] = ray.OrgY
	r.OrgZ[i] = ray.OrgZ
	r.TNear[i] = ray.TNear
	r.DirX[i] = ray.DirX
	r.DirY[i] = ray.DirY
	r.DirZ[i] = ray.DirZ
	r.Time[i] = ray.Time
	r.TFar[i] = ray.TFar
	r.Mask[i] = ray.Mask
	r.ID[i] = ray.ID
	r.Flags[i] = ray.Flags
}

// RayRecord gathers lane i into a single-ray value.
func (r *Ray4) RayRecord(i int) Ray {
	checkLane4(i)
	return Ray{
		OrgX:  r.OrgX[i],
		OrgY:  r.OrgY[i],
		OrgZ:  r.OrgZ[i],
		TNear: r.TNear[i],
		DirX:  r.DirX[i],
		DirY:  r.DirY[i],
		DirZ:  r.DirZ[i],
		Time:  r.Time[i],
		TFar:  r.TFar[i],
		Mask:  r.Mask[i],
		ID:    r.ID[i],
		Flags: r.Flags[i],
	}
}

// Len returns the packet width.
func (h *Hit4) Len() int { return PacketWidth }

// Valid reports whether lane i holds a hit.
func (h *Hit4) Valid(i int) bool {
	checkLane4(i)
	return h.GeomID[i] != InvalidID
}

// AnyHit reports whether at least one lane holds a hit.
func (h *Hit4) AnyHit() bool {
	for _, g := range h.GeomID {
		if g != InvalidID {
			return true
		}
	}
	return false
}

// HitRecord gathers lane i into a single-hit value.
func (h *Hit4) HitRecord(i int) Hit {
	checkLane4(i)
	return Hit{
		NgX:    h.NgX[i],
		NgY:    h.NgY[i],
		NgZ:    h.NgZ[i],
		U:      h.U[i],
		V:      h.V[i],
		PrimID: h.PrimID[i],
		GeomID: h.GeomID[i],
		InstID: h.InstID[i],
	}
}
