package raystream

import "github.com/chewxy/math32"

// Ray is a single ray in the kernel's wire layout. The field order and
// widths are a bit-exact contract; do not reorder.
type Ray struct {
	OrgX, OrgY, OrgZ float32
	TNear            float32
	DirX, DirY, DirZ float32
	Time             float32
	TFar             float32
	Mask             uint32
	ID               uint32
	Flags            uint32
}

// NewRay returns a ray from org along dir covering the segment
// [0, +Inf), with the mask fully open and all other fields zero.
func NewRay(org, dir [3]float32) Ray {
	return Segment(org, dir, 0, math32.Inf(1))
}

// Segment returns a ray restricted to the parametric range
// [tnear, tfar].
func Segment(org, dir [3]float32, tnear, tfar float32) Ray {
	return Ray{
		OrgX:  org[0],
		OrgY:  org[1],
		OrgZ:  org[2],
		TNear: tnear,
		DirX:  dir[0],
		DirY:  dir[1],
		DirZ:  dir[2],
		TFar:  tfar,
		Mask:  0xFFFFFFFF,
	}
}

// Org returns the ray origin.
func (r *Ray) Org() [3]float32 { return [3]float32{r.OrgX, r.OrgY, r.OrgZ} }

// Dir returns the ray direction.
func (r *Ray) Dir() [3]float32 { return [3]float32{r.DirX, r.DirY, r.DirZ} }

// Hit is a single hit record in the kernel's wire layout.
type Hit struct {
	NgX, NgY, NgZ float32
	U, V          float32
	PrimID        uint32
	GeomID        uint32
	InstID        uint32
}

// NewHit returns a hit with all ids set to InvalidID, the state the
// kernel expects before an intersect query.
func NewHit() Hit {
	return Hit{
		PrimID: InvalidID,
		GeomID: InvalidID,
		InstID: InvalidID,
	}
}

// IsHit reports whether the record holds a hit.
func (h *Hit) IsHit() bool { return h.GeomID != InvalidID }

// Ng returns the unnormalized geometry normal.
func (h *Hit) Ng() [3]float32 { return [3]float32{h.NgX, h.NgY, h.NgZ} }

// UnitNormal returns the normalized geometry normal. A zero-length
// normal yields NaN components; callers must treat a zero Ng as "no
// meaningful normal" before normalizing.
func (h *Hit) UnitNormal() [3]float32 { return Normalize3(h.Ng()) }

// RayHit pairs a ray with its hit record for intersect queries.
type RayHit struct {
	Ray Ray
	Hit Hit
}

// NewRayHit wraps ray with a fresh (all-invalid) hit record.
func NewRayHit(ray Ray) RayHit {
	return RayHit{Ray: ray, Hit: NewHit()}
}

// Normalize3 scales v to unit length. All components become NaN when v
// is exactly zero.
func Normalize3(v [3]float32) [3]float32 {
	s := 1 / math32.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2])
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}
