package raystream

import "unsafe"

// The pointer tables below are the only way stream memory crosses the
// foreign-function boundary. Each table holds one raw pointer per
// declared field, every pointer 16-byte aligned and addressing exactly
// Len contiguous elements. The tables stay valid as long as the stream
// they came from is reachable.

// RawRayNp is the per-field pointer table for a ray stream, matching
// the kernel's expected field order.
type RawRayNp struct {
	OrgX, OrgY, OrgZ unsafe.Pointer
	TNear            unsafe.Pointer
	DirX, DirY, DirZ unsafe.Pointer
	Time             unsafe.Pointer
	TFar             unsafe.Pointer
	Mask             unsafe.Pointer
	ID               unsafe.Pointer
	Flags            unsafe.Pointer
}

// RawHitNp is the per-field pointer table for a hit stream.
type RawHitNp struct {
	NgX, NgY, NgZ unsafe.Pointer
	U, V          unsafe.Pointer
	PrimID        unsafe.Pointer
	GeomID        unsafe.Pointer
	InstID        unsafe.Pointer
}

// RawRayHitNp pairs the two tables for combined intersect queries.
type RawRayHitNp struct {
	Ray RawRayNp
	Hit RawHitNp
}

// Raw builds the pointer table for the kernel's stream entry points.
// The kernel reads and writes the stream memory through it.
func (r *RayNp) Raw() RawRayNp {
	stride := fieldStride(r.n)
	return RawRayNp{
		OrgX:  r.mem.fieldPtr(rayFieldOrgX * stride),
		OrgY:  r.mem.fieldPtr(rayFieldOrgY * stride),
		OrgZ:  r.mem.fieldPtr(rayFieldOrgZ * stride),
		TNear: r.mem.fieldPtr(rayFieldTNear * stride),
		DirX:  r.mem.fieldPtr(rayFieldDirX * stride),
		DirY:  r.mem.fieldPtr(rayFieldDirY * stride),
		DirZ:  r.mem.fieldPtr(rayFieldDirZ * stride),
		Time:  r.mem.fieldPtr(rayFieldTime * stride),
		TFar:  r.mem.fieldPtr(rayFieldTFar * stride),
		Mask:  r.mem.fieldPtr(rayFieldMask * stride),
		ID:    r.mem.fieldPtr(rayFieldID * stride),
		Flags: r.mem.fieldPtr(rayFieldFlags * stride),
	}
}

// Raw builds the pointer table for the kernel's stream entry points.
func (h *HitNp) Raw() RawHitNp {
	stride := fieldStride(h.n)
	return RawHitNp{
		NgX:    h.mem.fieldPtr(hitFieldNgX * stride),
		NgY:    h.mem.fieldPtr(hitFieldNgY * stride),
		NgZ:    h.mem.fieldPtr(hitFieldNgZ * stride),
		U:      h.mem.fieldPtr(hitFieldU * stride),
		V:      h.mem.fieldPtr(hitFieldV * stride),
		PrimID: h.mem.fieldPtr(hitFieldPrimID * stride),
		GeomID: h.mem.fieldPtr(hitFieldGeomID * stride),
		InstID: h.mem.fieldPtr(hitFieldInstID * stride),
	}
}

// Raw builds the combined pointer table for the kernel's paired
// intersect entry point.
func (rh *RayHitNp) Raw() RawRayHitNp {
	return RawRayHitNp{Ray: rh.Ray.Raw(), Hit: rh.Hit.Raw()}
}
