package raystream

import (
	"fmt"
	"iter"

	"github.com/chewxy/math32"
)

// Declared field order of a ray stream arena. This is the kernel's
// expected layout, not a local choice; field i starts at byte offset
// i*fieldStride(n).
const (
	rayFieldOrgX = iota
	rayFieldOrgY
	rayFieldOrgZ
	rayFieldTNear
	rayFieldDirX
	rayFieldDirY
	rayFieldDirZ
	rayFieldTime
	rayFieldTFar
	rayFieldMask
	rayFieldID
	rayFieldFlags
	rayFieldCount
)

// Declared field order of a hit stream arena.
const (
	hitFieldNgX = iota
	hitFieldNgY
	hitFieldNgZ
	hitFieldU
	hitFieldV
	hitFieldPrimID
	hitFieldGeomID
	hitFieldInstID
	hitFieldCount
)

// RayNp is a ray stream of n lanes in SoA layout backed by a single
// aligned arena. Lane count is fixed at construction; there is no
// resizing.
type RayNp struct {
	mem *arena
	n   int

	orgX, orgY, orgZ []float32
	tnear            []float32
	dirX, dirY, dirZ []float32
	time             []float32
	tfar             []float32
	mask             []uint32
	id               []uint32
	flags            []uint32
}

// NewRayNp allocates a ray stream with room for n rays. Every lane is
// initialized to the kernel's expected defaults: tnear 0, tfar +Inf,
// mask all-ones, everything else zero.
func NewRayNp(n int) *RayNp {
	if n < 0 {
		panic(fmt.Sprintf("raystream: negative ray stream size %d", n))
	}
	stride := fieldStride(n)
	mem := newArena(stride * rayFieldCount)
	r := &RayNp{
		mem:   mem,
		n:     n,
		orgX:  mem.floats(rayFieldOrgX*stride, n),
		orgY:  mem.floats(rayFieldOrgY*stride, n),
		orgZ:  mem.floats(rayFieldOrgZ*stride, n),
		tnear: mem.floats(rayFieldTNear*stride, n),
		dirX:  mem.floats(rayFieldDirX*stride, n),
		dirY:  mem.floats(rayFieldDirY*stride, n),
		dirZ:  mem.floats(rayFieldDirZ*stride, n),
		time:  mem.floats(rayFieldTime*stride, n),
		tfar:  mem.floats(rayFieldTFar*stride, n),
		mask:  mem.uints(rayFieldMask*stride, n),
		id:    mem.uints(rayFieldID*stride, n),
		flags: mem.uints(rayFieldFlags*stride, n),
	}
	inf := math32.Inf(1)
	for i := 0; i < n; i++ {
		r.tfar[i] = inf
		r.mask[i] = 0xFFFFFFFF
	}
	return r
}

// Len returns the number of rays in the stream.
func (r *RayNp) Len() int { return r.n }

// SetRay overwrites lane i with all fields of ray.
func (r *RayNp) SetRay(i int, ray Ray) {
	r.orgX[i] = ray.OrgX
	r.orgY[i] = ray.OrgY
	r.orgZ[i] = ray.OrgZ
	r.tnear[i] = ray.TNear
	r.dirX[i] = ray.DirX
	r.dirY[i] = ray.DirY
	r.dirZ[i] = ray.DirZ
	r.time[i] = ray.Time
	r.tfar[i] = ray.TFar
	r.mask[i] = ray.Mask
	r.id[i] = ray.ID
	r.flags[i] = ray.Flags
}

// Ray gathers lane i into a single-ray value.
func (r *RayNp) Ray(i int) Ray {
	return Ray{
		OrgX:  r.orgX[i],
		OrgY:  r.orgY[i],
		OrgZ:  r.orgZ[i],
		TNear: r.tnear[i],
		DirX:  r.dirX[i],
		DirY:  r.dirY[i],
		DirZ:  r.dirZ[i],
		Time:  r.time[i],
		TFar:  r.tfar[i],
		Mask:  r.mask[i],
		ID:    r.id[i],
		Flags: r.flags[i],
	}
}

func (r *RayNp) Org(i int) [3]float32 { return [3]float32{r.orgX[i], r.orgY[i], r.orgZ[i]} }

func (r *RayNp) SetOrg(i int, org [3]float32) {
	r.orgX[i] = org[0]
	r.orgY[i] = org[1]
	r.orgZ[i] = org[2]
}

func (r *RayNp) Dir(i int) [3]float32 { return [3]float32{r.dirX[i], r.dirY[i], r.dirZ[i]} }

func (r *RayNp) SetDir(i int, dir [3]float32) {
	r.dirX[i] = dir[0]
	r.dirY[i] = dir[1]
	r.dirZ[i] = dir[2]
}

func (r *RayNp) TNear(i int) float32          { return r.tnear[i] }
func (r *RayNp) SetTNear(i int, near float32) { r.tnear[i] = near }

func (r *RayNp) TFar(i int) float32         { return r.tfar[i] }
func (r *RayNp) SetTFar(i int, far float32) { r.tfar[i] = far }

func (r *RayNp) Time(i int) float32       { return r.time[i] }
func (r *RayNp) SetTime(i int, t float32) { r.time[i] = t }

func (r *RayNp) Mask(i int) uint32         { return r.mask[i] }
func (r *RayNp) SetMask(i int, m uint32)   { r.mask[i] = m }
func (r *RayNp) ID(i int) uint32           { return r.id[i] }
func (r *RayNp) SetID(i int, id uint32)    { r.id[i] = id }
func (r *RayNp) Flags(i int) uint32        { return r.flags[i] }
func (r *RayNp) SetFlags(i int, fl uint32) { r.flags[i] = fl }

// Lanes returns a restartable in-order sequence of read-only lane views.
func (r *RayNp) Lanes() iter.Seq[RayView] { return RayLanes(r) }

// HitNp is a hit stream of n lanes in SoA layout backed by a single
// aligned arena.
type HitNp struct {
	mem *arena
	n   int

	ngX, ngY, ngZ []float32
	u, v          []float32
	primID        []uint32
	geomID        []uint32
	instID        []uint32
}

// NewHitNp allocates a hit stream with room for n hits. All id fields
// start at InvalidID; normals and barycentrics start at zero.
func NewHitNp(n int) *HitNp {
	if n < 0 {
		panic(fmt.Sprintf("raystream: negative hit stream size %d", n))
	}
	stride := fieldStride(n)
	mem := newArena(stride * hitFieldCount)
	h := &HitNp{
		mem:    mem,
		n:      n,
		ngX:    mem.floats(hitFieldNgX*stride, n),
		ngY:    mem.floats(hitFieldNgY*stride, n),
		ngZ:    mem.floats(hitFieldNgZ*stride, n),
		u:      mem.floats(hitFieldU*stride, n),
		v:      mem.floats(hitFieldV*stride, n),
		primID: mem.uints(hitFieldPrimID*stride, n),
		geomID: mem.uints(hitFieldGeomID*stride, n),
		instID: mem.uints(hitFieldInstID*stride, n),
	}
	for i := 0; i < n; i++ {
		h.primID[i] = InvalidID
		h.geomID[i] = InvalidID
		h.instID[i] = InvalidID
	}
	return h
}

// Len returns the number of hits in the stream.
func (h *HitNp) Len() int { return h.n }

// Hit gathers lane i into a single-hit value.
func (h *HitNp) Hit(i int) Hit {
	return Hit{
		NgX:    h.ngX[i],
		NgY:    h.ngY[i],
		NgZ:    h.ngZ[i],
		U:      h.u[i],
		V:      h.v[i],
		PrimID: h.primID[i],
		GeomID: h.geomID[i],
		InstID: h.instID[i],
	}
}

func (h *HitNp) Ng(i int) [3]float32 { return [3]float32{h.ngX[i], h.ngY[i], h.ngZ[i]} }

func (h *HitNp) SetNg(i int, ng [3]float32) {
	h.ngX[i] = ng[0]
	h.ngY[i] = ng[1]
	h.ngZ[i] = ng[2]
}

// UnitNormal returns the normalized geometry normal of lane i. A zero
// Ng yields NaN components.
func (h *HitNp) UnitNormal(i int) [3]float32 { return Normalize3(h.Ng(i)) }

func (h *HitNp) U(i int) float32       { return h.u[i] }
func (h *HitNp) SetU(i int, u float32) { h.u[i] = u }
func (h *HitNp) V(i int) float32       { return h.v[i] }
func (h *HitNp) SetV(i int, v float32) { h.v[i] = v }
func (h *HitNp) UV(i int) [2]float32   { return [2]float32{h.u[i], h.v[i]} }

func (h *HitNp) PrimID(i int) uint32        { return h.primID[i] }
func (h *HitNp) SetPrimID(i int, id uint32) { h.primID[i] = id }
func (h *HitNp) GeomID(i int) uint32        { return h.geomID[i] }
func (h *HitNp) SetGeomID(i int, id uint32) { h.geomID[i] = id }
func (h *HitNp) InstID(i int) uint32        { return h.instID[i] }
func (h *HitNp) SetInstID(i int, id uint32) { h.instID[i] = id }

// Valid reports whether lane i holds a hit.
func (h *HitNp) Valid(i int) bool { return h.geomID[i] != InvalidID }

// AnyHit reports whether at least one lane holds a hit.
func (h *HitNp) AnyHit() bool {
	for _, g := range h.geomID {
		if g != InvalidID {
			return true
		}
	}
	return false
}

// Lanes returns a restartable in-order sequence of read-only lane views.
func (h *HitNp) Lanes() iter.Seq[HitView] { return HitLanes(h) }

// Hits is like Lanes but yields only the lanes holding a valid hit.
func (h *HitNp) Hits() iter.Seq[HitView] { return ValidHitLanes(h) }

// RayHitNp pairs a ray stream with a hit stream of the same lane count
// for combined intersect queries. The hit stream's size is derived from
// the ray stream, so the pair can never be mismatched.
type RayHitNp struct {
	Ray *RayNp
	Hit *HitNp
}

// NewRayHitNp wraps ray with a fresh hit stream of equal lane count.
func NewRayHitNp(ray *RayNp) *RayHitNp {
	return &RayHitNp{Ray: ray, Hit: NewHitNp(ray.Len())}
}

// Len returns the number of lanes in the pair.
func (rh *RayHitNp) Len() int { return rh.Ray.Len() }

// Lanes returns a zipped in-order sequence of (ray view, hit view)
// pairs.
func (rh *RayHitNp) Lanes() iter.Seq2[RayView, HitView] {
	return func(yield func(RayView, HitView) bool) {
		n := rh.Len()
		for i := 0; i < n; i++ {
			if !yield(RayView{rh.Ray, i}, HitView{rh.Hit, i}) {
				return
			}
		}
	}
}
