package raystream

import "iter"

// RayView is a read-only view of one lane of a SoA ray container.
type RayView struct {
	ray SoARay
	i   int
}

// Lane returns the lane index the view refers to.
func (v RayView) Lane() int { return v.i }

func (v RayView) Org() [3]float32 { return v.ray.Org(v.i) }
func (v RayView) Dir() [3]float32 { return v.ray.Dir(v.i) }
func (v RayView) TNear() float32  { return v.ray.TNear(v.i) }
func (v RayView) TFar() float32   { return v.ray.TFar(v.i) }
func (v RayView) Time() float32   { return v.ray.Time(v.i) }
func (v RayView) Mask() uint32    { return v.ray.Mask(v.i) }
func (v RayView) ID() uint32      { return v.ray.ID(v.i) }
func (v RayView) Flags() uint32   { return v.ray.Flags(v.i) }

// HitView is a read-only view of one lane of a SoA hit container.
type HitView struct {
	hit SoAHit
	i   int
}

// Lane returns the lane index the view refers to.
func (v HitView) Lane() int { return v.i }

func (v HitView) Ng() [3]float32 { return v.hit.Ng(v.i) }
func (v HitView) U() float32     { return v.hit.U(v.i) }
func (v HitView) V() float32     { return v.hit.V(v.i) }
func (v HitView) UV() [2]float32 { return v.hit.UV(v.i) }
func (v HitView) PrimID() uint32 { return v.hit.PrimID(v.i) }
func (v HitView) GeomID() uint32 { return v.hit.GeomID(v.i) }
func (v HitView) InstID() uint32 { return v.hit.InstID(v.i) }

// Valid reports whether the lane holds a hit.
func (v HitView) Valid() bool { return v.hit.GeomID(v.i) != InvalidID }

// UnitNormal returns the normalized geometry normal of the lane. A zero
// Ng yields NaN components.
func (v HitView) UnitNormal() [3]float32 { return Normalize3(v.Ng()) }

// RayLanes returns a lazy, restartable sequence of read-only views over
// all lanes of r in ascending order.
func RayLanes(r SoARay) iter.Seq[RayView] {
	return func(yield func(RayView) bool) {
		n := r.Len()
		for i := 0; i < n; i++ {
			if !yield(RayView{r, i}) {
				return
			}
		}
	}
}

// HitLanes returns a lazy, restartable sequence of read-only views over
// all lanes of h in ascending order.
func HitLanes(h SoAHit) iter.Seq[HitView] {
	return func(yield func(HitView) bool) {
		n := h.Len()
		for i := 0; i < n; i++ {
			if !yield(HitView{h, i}) {
				return
			}
		}
	}
}

// ValidHitLanes is like HitLanes but skips lanes whose geometry id is
// InvalidID.
func ValidHitLanes(h SoAHit) iter.Seq[HitView] {
	return func(yield func(HitView) bool) {
		n := h.Len()
		for i := 0; i < n; i++ {
			if h.GeomID(i) == InvalidID {
				continue
			}
			if !yield(HitView{h, i}) {
				return
			}
		}
	}
}
