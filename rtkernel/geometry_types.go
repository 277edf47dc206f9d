package rtkernel

// Convenience constructors for the common geometry kinds. Each one
// creates the geometry, binds and fills its buffers, and commits it,
// so the result is ready to attach.

// NewTriangleMesh creates a committed triangle mesh from vertex
// positions and per-triangle vertex indices.
func (d *Device) NewTriangleMesh(vertices [][3]float32, indices [][3]uint32) (*Geometry, error) {
	g, err := d.NewGeometry(GeometryTriangle)
	if err != nil {
		return nil, err
	}
	vb, err := g.SetNewBuffer(BufferVertex, 0, FormatFloat3, len(vertices))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(vb.Vec3s(), vertices)

	ib, err := g.SetNewBuffer(BufferIndex, 0, FormatUint3, len(indices))
	if err != nil {
		g.Close()
		return nil, err
	}
	dst := ib.Uint32s()
	for i, tri := range indices {
		copy(dst[i*3:], tri[:])
	}
	g.Commit()
	return g, nil
}

// NewQuadMesh creates a committed quad mesh. Each index quadruple
// names the corners of one quad in order.
func (d *Device) NewQuadMesh(vertices [][3]float32, indices [][4]uint32) (*Geometry, error) {
	g, err := d.NewGeometry(GeometryQuad)
	if err != nil {
		return nil, err
	}
	vb, err := g.SetNewBuffer(BufferVertex, 0, FormatFloat3, len(vertices))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(vb.Vec3s(), vertices)

	ib, err := g.SetNewBuffer(BufferIndex, 0, FormatUint4, len(indices))
	if err != nil {
		g.Close()
		return nil, err
	}
	dst := ib.Uint32s()
	for i, quad := range indices {
		copy(dst[i*4:], quad[:])
	}
	g.Commit()
	return g, nil
}

// NewSubdivisionMesh creates a committed subdivision surface from
// vertex positions, a flat index list, and per-face vertex counts.
func (d *Device) NewSubdivisionMesh(vertices [][3]float32, indices []uint32, faces []uint32) (*Geometry, error) {
	g, err := d.NewGeometry(GeometrySubdivision)
	if err != nil {
		return nil, err
	}
	vb, err := g.SetNewBuffer(BufferVertex, 0, FormatFloat3, len(vertices))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(vb.Vec3s(), vertices)

	ib, err := g.SetNewBuffer(BufferIndex, 0, FormatUint, len(indices))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(ib.Uint32s(), indices)

	fb, err := g.SetNewBuffer(BufferFace, 0, FormatUint, len(faces))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(fb.Uint32s(), faces)
	g.Commit()
	return g, nil
}

// NewCurve creates a committed curve geometry of the given kind.
// Each vertex is position plus radius; indices name the first control
// point of each curve segment.
func (d *Device) NewCurve(kind GeometryKind, vertices [][4]float32, indices []uint32) (*Geometry, error) {
	g, err := d.NewGeometry(kind)
	if err != nil {
		return nil, err
	}
	vb, err := g.SetNewBuffer(BufferVertex, 0, FormatFloat4, len(vertices))
	if err != nil {
		g.Close()
		return nil, err
	}
	dst := vb.Float32s()
	for i, v := range vertices {
		copy(dst[i*4:], v[:])
	}

	ib, err := g.SetNewBuffer(BufferIndex, 0, FormatUint, len(indices))
	if err != nil {
		g.Close()
		return nil, err
	}
	copy(ib.Uint32s(), indices)
	g.Commit()
	return g, nil
}

// NewInstance creates a committed instance of scene with the given
// column-major 3x4 transform. The instanced scene must already be
// committed.
func (d *Device) NewInstance(scene *Scene, xfm *[12]float32) (*Geometry, error) {
	g, err := d.NewGeometry(GeometryInstance)
	if err != nil {
		return nil, err
	}
	if err := g.SetInstancedScene(scene); err != nil {
		g.Close()
		return nil, err
	}
	g.SetTransform(0, xfm)
	g.Commit()
	return g, nil
}

// NewUserGeometry creates a committed user geometry of primCount
// primitives with the given callbacks. bounds and intersect are
// required for the geometry to participate in builds and intersect
// queries; occluded may be nil when only intersect queries are used.
func (d *Device) NewUserGeometry(primCount int, bounds UserBoundsFunc, intersect UserIntersectFunc, occluded UserOccludedFunc) (*Geometry, error) {
	if bounds == nil {
		return nil, errFromCode("geometry.user", codeInvalidArgument, "user geometry requires a bounds callback")
	}
	g, err := d.NewGeometry(GeometryUser)
	if err != nil {
		return nil, err
	}
	g.SetUserPrimitiveCount(primCount)
	g.SetBoundsFunc(bounds)
	if intersect != nil {
		g.SetIntersectFunc(intersect)
	}
	if occluded != nil {
		g.SetOccludedFunc(occluded)
	}
	g.Commit()
	return g, nil
}

// IdentityTransform returns the column-major 3x4 identity matrix for
// use with SetTransform and NewInstance.
func IdentityTransform() [12]float32 {
	return [12]float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	}
}

// TranslationTransform returns a column-major 3x4 matrix translating
// by (x, y, z).
func TranslationTransform(x, y, z float32) [12]float32 {
	m := IdentityTransform()
	m[9], m[10], m[11] = x, y, z
	return m
}
