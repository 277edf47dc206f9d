package raystream

import (
	"testing"
	"unsafe"

	"github.com/chewxy/math32"
)

// rawRayPointers flattens the pointer table for alignment checks.
func rawRayPointers(r *RayNp) []unsafe.Pointer {
	raw := r.Raw()
	return []unsafe.Pointer{
		raw.OrgX, raw.OrgY, raw.OrgZ, raw.TNear,
		raw.DirX, raw.DirY, raw.DirZ, raw.Time,
		raw.TFar, raw.Mask, raw.ID, raw.Flags,
	}
}

func rawHitPointers(h *HitNp) []unsafe.Pointer {
	raw := h.Raw()
	return []unsafe.Pointer{
		raw.NgX, raw.NgY, raw.NgZ, raw.U, raw.V,
		raw.PrimID, raw.GeomID, raw.InstID,
	}
}

func TestRayNpDefaults(t *testing.T) {
	// DOING: Construct a fresh ray stream and inspect every lane.
	// EXPECT: tnear 0, tfar +Inf, mask all-ones, everything else zero.

	r := NewRayNp(135)
	if r.Len() != 135 {
		t.Fatalf("Len() = %d, want 135", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		if org := r.Org(i); org != [3]float32{} {
			t.Errorf("lane %d: org = %v, want zero", i, org)
		}
		if dir := r.Dir(i); dir != [3]float32{} {
			t.Errorf("lane %d: dir = %v, want zero", i, dir)
		}
		if r.TNear(i) != 0 {
			t.Errorf("lane %d: tnear = %v, want 0", i, r.TNear(i))
		}
		if !math32.IsInf(r.TFar(i), 1) {
			t.Errorf("lane %d: tfar = %v, want +Inf", i, r.TFar(i))
		}
		if r.Mask(i) != 0xFFFFFFFF {
			t.Errorf("lane %d: mask = %#x, want 0xFFFFFFFF", i, r.Mask(i))
		}
		if r.ID(i) != 0 || r.Flags(i) != 0 || r.Time(i) != 0 {
			t.Errorf("lane %d: id/flags/time not zero", i)
		}
	}
}

func TestHitNpDefaults(t *testing.T) {
	h := NewHitNp(13)
	for i := 0; i < h.Len(); i++ {
		if h.GeomID(i) != InvalidID {
			t.Errorf("lane %d: geomID = %#x, want InvalidID", i, h.GeomID(i))
		}
		if h.PrimID(i) != InvalidID {
			t.Errorf("lane %d: primID = %#x, want InvalidID", i, h.PrimID(i))
		}
		if h.InstID(i) != InvalidID {
			t.Errorf("lane %d: instID = %#x, want InvalidID", i, h.InstID(i))
		}
		if h.Ng(i) != ([3]float32{}) || h.UV(i) != ([2]float32{}) {
			t.Errorf("lane %d: normal/uv not zero", i)
		}
		if h.Valid(i) {
			t.Errorf("lane %d: valid on a fresh stream", i)
		}
	}
	if h.AnyHit() {
		t.Error("AnyHit() = true on a fresh stream")
	}
}

func TestRawTableAlignment(t *testing.T) {
	// Sizes straddle sub-SIMD and multi-SIMD-width boundaries.
	for _, n := range []int{1, 9, 13, 18, 135} {
		r := NewRayNp(n)
		for i, p := range rawRayPointers(r) {
			if uintptr(p)%FieldAlign != 0 {
				t.Errorf("n=%d: ray field %d at %#x not aligned", n, i, uintptr(p))
			}
		}
		h := NewHitNp(n)
		for i, p := range rawHitPointers(h) {
			if uintptr(p)%FieldAlign != 0 {
				t.Errorf("n=%d: hit field %d at %#x not aligned", n, i, uintptr(p))
			}
		}
	}
}

func TestRayNpRoundTrip(t *testing.T) {
	r := NewRayNp(7)
	r.SetOrg(3, [3]float32{1, 2, 3})
	r.SetDir(3, [3]float32{0, 1, 0})
	r.SetTNear(3, 0.25)
	r.SetTFar(3, 64)
	r.SetTime(3, 0.5)
	r.SetMask(3, 0xF0)
	r.SetID(3, 42)
	r.SetFlags(3, 7)

	if got := r.Org(3); got != ([3]float32{1, 2, 3}) {
		t.Errorf("Org(3) = %v", got)
	}
	if got := r.Dir(3); got != ([3]float32{0, 1, 0}) {
		t.Errorf("Dir(3) = %v", got)
	}
	if r.TNear(3) != 0.25 || r.TFar(3) != 64 || r.Time(3) != 0.5 {
		t.Error("scalar fields did not round-trip")
	}
	if r.Mask(3) != 0xF0 || r.ID(3) != 42 || r.Flags(3) != 7 {
		t.Error("integer fields did not round-trip")
	}

	// Neighboring lanes keep their defaults.
	for _, i := range []int{2, 4} {
		if r.Org(i) != ([3]float32{}) || !math32.IsInf(r.TFar(i), 1) || r.Mask(i) != 0xFFFFFFFF {
			t.Errorf("lane %d disturbed by writes to lane 3", i)
		}
	}
}

func TestRayNpNoFieldOverlap(t *testing.T) {
	// DOING: Write a unique value into every lane of every field, then
	// verify all of them independently.
	// EXPECT: No write bleeds into another lane or another field.

	const n = 18
	r := NewRayNp(n)
	for i := 0; i < n; i++ {
		base := float32(i * 100)
		r.SetOrg(i, [3]float32{base + 1, base + 2, base + 3})
		r.SetTNear(i, base+4)
		r.SetDir(i, [3]float32{base + 5, base + 6, base + 7})
		r.SetTime(i, base+8)
		r.SetTFar(i, base+9)
		r.SetMask(i, uint32(i*100+10))
		r.SetID(i, uint32(i*100+11))
		r.SetFlags(i, uint32(i*100+12))
	}
	for i := 0; i < n; i++ {
		base := float32(i * 100)
		if r.Org(i) != ([3]float32{base + 1, base + 2, base + 3}) {
			t.Fatalf("lane %d: org overwritten: %v", i, r.Org(i))
		}
		if r.TNear(i) != base+4 {
			t.Fatalf("lane %d: tnear overwritten", i)
		}
		if r.Dir(i) != ([3]float32{base + 5, base + 6, base + 7}) {
			t.Fatalf("lane %d: dir overwritten: %v", i, r.Dir(i))
		}
		if r.Time(i) != base+8 || r.TFar(i) != base+9 {
			t.Fatalf("lane %d: time/tfar overwritten", i)
		}
		if r.Mask(i) != uint32(i*100+10) || r.ID(i) != uint32(i*100+11) || r.Flags(i) != uint32(i*100+12) {
			t.Fatalf("lane %d: integer fields overwritten", i)
		}
	}
}

func TestHitNpNoFieldOverlap(t *testing.T) {
	const n = 11
	h := NewHitNp(n)
	for i := 0; i < n; i++ {
		base := float32(i * 10)
		h.SetNg(i, [3]float32{base + 1, base + 2, base + 3})
		h.SetU(i, base+4)
		h.SetV(i, base+5)
		h.SetPrimID(i, uint32(i*10+6))
		h.SetGeomID(i, uint32(i*10+7))
		h.SetInstID(i, uint32(i*10+8))
	}
	for i := 0; i < n; i++ {
		base := float32(i * 10)
		if h.Ng(i) != ([3]float32{base + 1, base + 2, base + 3}) {
			t.Fatalf("lane %d: normal overwritten: %v", i, h.Ng(i))
		}
		if h.UV(i) != ([2]float32{base + 4, base + 5}) {
			t.Fatalf("lane %d: uv overwritten: %v", i, h.UV(i))
		}
		if h.PrimID(i) != uint32(i*10+6) || h.GeomID(i) != uint32(i*10+7) || h.InstID(i) != uint32(i*10+8) {
			t.Fatalf("lane %d: ids overwritten", i)
		}
	}
}

func TestHitNpAnyHit(t *testing.T) {
	h := NewHitNp(9)
	if h.AnyHit() {
		t.Fatal("AnyHit() = true before any lane was set")
	}
	h.SetGeomID(5, 2)
	if !h.AnyHit() {
		t.Fatal("AnyHit() = false after setting lane 5")
	}
	if !h.Valid(5) || h.Valid(4) {
		t.Error("per-lane validity wrong after setting lane 5")
	}
}

func TestHitNpUnitNormal(t *testing.T) {
	h := NewHitNp(2)
	h.SetNg(0, [3]float32{0, 3, 4})
	un := h.UnitNormal(0)
	want := [3]float32{0, 0.6, 0.8}
	for k := 0; k < 3; k++ {
		if math32.Abs(un[k]-want[k]) > 1e-6 {
			t.Fatalf("UnitNormal(0) = %v, want %v", un, want)
		}
	}
	// Zero normal has no meaningful direction.
	for _, c := range h.UnitNormal(1) {
		if !math32.IsNaN(c) {
			t.Fatalf("UnitNormal of zero Ng = %v, want NaNs", h.UnitNormal(1))
		}
	}
}

func TestRayNpOutOfRangePanics(t *testing.T) {
	r := NewRayNp(4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range lane")
		}
	}()
	r.SetTFar(4, 1)
}

func TestRayHitNpPairing(t *testing.T) {
	rh := NewRayHitNp(NewRayNp(6))
	if rh.Len() != 6 || rh.Hit.Len() != 6 {
		t.Fatalf("paired lengths %d/%d, want 6/6", rh.Len(), rh.Hit.Len())
	}
	raw := rh.Raw()
	if uintptr(raw.Ray.OrgX)%FieldAlign != 0 || uintptr(raw.Hit.GeomID)%FieldAlign != 0 {
		t.Error("combined raw table not aligned")
	}

	count := 0
	for rv, hv := range rh.Lanes() {
		if rv.Lane() != count || hv.Lane() != count {
			t.Fatalf("zipped lane order broken at %d", count)
		}
		count++
	}
	if count != 6 {
		t.Fatalf("zipped iteration yielded %d lanes, want 6", count)
	}
}

func TestZeroLengthStreams(t *testing.T) {
	r := NewRayNp(0)
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	for range r.Lanes() {
		t.Fatal("iteration over empty stream yielded a lane")
	}
	h := NewHitNp(0)
	if h.AnyHit() {
		t.Error("AnyHit() on empty stream")
	}
	// The pointer table must still carry valid aligned addresses.
	for _, p := range rawRayPointers(r) {
		if p == nil || uintptr(p)%FieldAlign != 0 {
			t.Fatal("empty stream raw table invalid")
		}
	}
}
