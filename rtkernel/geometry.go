package rtkernel

import (
	"runtime"
	"sync"
	"unsafe"
)

// Geometry wraps one kernel geometry object. Geometries are created
// from a device, filled with buffer data, committed, and attached to
// one or more scenes. A Geometry is safe for concurrent use.
type Geometry struct {
	mu     sync.Mutex
	h      handle
	dev    *Device
	kind   GeometryKind
	shared map[bufferSlot]*Buffer
	prims  int
	closed bool
}

type bufferSlot struct {
	usage BufferUsage
	slot  uint32
}

// NewGeometry creates an empty geometry of the given kind.
func (d *Device) NewGeometry(kind GeometryKind) (*Geometry, error) {
	dh, err := d.raw()
	if err != nil {
		return nil, err
	}
	h, err := kernelNewGeometry(dh, kind)
	if err != nil {
		return nil, err
	}
	g := &Geometry{
		h:      h,
		dev:    d,
		kind:   kind,
		shared: make(map[bufferSlot]*Buffer),
	}
	runtime.SetFinalizer(g, func(g *Geometry) { _ = g.Close() })
	return g, nil
}

// Kind returns the geometry kind the object was created with.
func (g *Geometry) Kind() GeometryKind { return g.kind }

// SetNewBuffer allocates a buffer sized for itemCount elements of
// format, binds it to the given usage and slot, and returns it for
// the caller to fill. The element stride is format.ElemSize().
func (g *Geometry) SetNewBuffer(usage BufferUsage, slot uint32, format Format, itemCount int) (*Buffer, error) {
	elem := format.ElemSize()
	if elem == 0 {
		return nil, errFromCode("geometry.setbuffer", codeInvalidArgument, "format has no fixed element size")
	}
	buf, err := g.dev.NewBuffer(elem * itemCount)
	if err != nil {
		return nil, err
	}
	if err := g.SetSharedBuffer(usage, slot, format, buf, 0, uintptr(elem), itemCount); err != nil {
		return nil, err
	}
	return buf, nil
}

// SetSharedBuffer binds buf's memory to the given usage and slot. The
// geometry retains buf so the memory outlives Go references held by
// the caller. byteOffset and byteStride address elements inside buf;
// byteStride must be a multiple of 4.
func (g *Geometry) SetSharedBuffer(usage BufferUsage, slot uint32, format Format, buf *Buffer, byteOffset, byteStride uintptr, itemCount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	if end := int(byteOffset) + int(byteStride)*itemCount; itemCount > 0 && end > buf.Len() {
		return errFromCode("geometry.setbuffer", codeInvalidArgument, "buffer range out of bounds")
	}
	err := kernelSetGeometryBuffer(g.h, usage, slot, format, buf.ptr(), byteOffset, byteStride, itemCount)
	if err != nil {
		return err
	}
	g.shared[bufferSlot{usage: usage, slot: slot}] = buf

	// Primitive count for build metrics: one primitive per index entry,
	// except subdivision meshes where the face buffer counts patches.
	switch {
	case usage == BufferFace:
		g.prims = itemCount
	case usage == BufferIndex && g.kind != GeometrySubdivision:
		g.prims = itemCount
	}
	return nil
}

// primitiveCount reports how many primitives the geometry exposes to
// the builder. Used for build metrics only.
func (g *Geometry) primitiveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prims
}

// Buffer returns the buffer bound to usage and slot, if any.
func (g *Geometry) Buffer(usage BufferUsage, slot uint32) (*Buffer, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	buf, ok := g.shared[bufferSlot{usage: usage, slot: slot}]
	return buf, ok
}

// Commit publishes buffer and parameter changes. A geometry must be
// committed before the scene holding it is committed.
func (g *Geometry) Commit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	kernelCommitGeometry(g.h)
}

// Enable includes the geometry in traversal. Geometries start enabled.
func (g *Geometry) Enable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelEnableGeometry(g.h)
	}
}

// Disable excludes the geometry from traversal without detaching it.
func (g *Geometry) Disable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelDisableGeometry(g.h)
	}
}

// SetBuildQuality overrides the scene's build quality for this
// geometry's primitives.
func (g *Geometry) SetBuildQuality(q BuildQuality) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryBuildQuality(g.h, q)
	}
}

// SetTimeStepCount sets the number of motion blur time steps. Buffers
// for time step t bind to slot t.
func (g *Geometry) SetTimeStepCount(n uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryTimeStepCount(g.h, n)
	}
}

// SetTransform sets the instance transform for one time step as a
// column-major 3x4 matrix.
func (g *Geometry) SetTransform(timeStep uint32, xfm *[12]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryTransform(g.h, timeStep, FormatFloat3x4ColumnMajor, unsafe.Pointer(xfm))
	}
}

// SetInstancedScene points an instance geometry at the scene it
// instantiates. The instanced scene must be committed before the
// instancing scene.
func (g *Geometry) SetInstancedScene(s *Scene) error {
	sh, err := s.queryHandle()
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	kernelSetGeometryInstancedScene(g.h, sh)
	return nil
}

// SetUserPrimitiveCount sets the number of primitives a user geometry
// exposes to the builder.
func (g *Geometry) SetUserPrimitiveCount(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryUserPrimitiveCount(g.h, n)
		g.prims = n
	}
}

// SetTessellationRate sets the fixed tessellation rate of a
// subdivision geometry.
func (g *Geometry) SetTessellationRate(rate float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryTessellationRate(g.h, rate)
	}
}

// SetSubdivisionMode sets the boundary interpolation mode of one
// topology of a subdivision geometry.
func (g *Geometry) SetSubdivisionMode(topologyID uint32, mode SubdivisionMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometrySubdivisionMode(g.h, topologyID, mode)
	}
}

// SetVertexAttributeCount sets the number of vertex attribute slots.
func (g *Geometry) SetVertexAttributeCount(n uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelSetGeometryVertexAttributeCount(g.h, n)
	}
}

// SetIntersectFilter installs fn to run for every candidate hit of an
// intersect query against this geometry. A nil fn clears it.
func (g *Geometry) SetIntersectFilter(fn FilterFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.intersectFilter = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

// SetOccludedFilter installs fn to run for every candidate hit of an
// occlusion query against this geometry. A nil fn clears it.
func (g *Geometry) SetOccludedFilter(fn FilterFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.occludedFilter = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

// SetBoundsFunc installs the bounds callback of a user geometry.
func (g *Geometry) SetBoundsFunc(fn UserBoundsFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.userBounds = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

// SetIntersectFunc installs the intersect callback of a user geometry.
func (g *Geometry) SetIntersectFunc(fn UserIntersectFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.userIntersect = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

// SetOccludedFunc installs the occlusion callback of a user geometry.
func (g *Geometry) SetOccludedFunc(fn UserOccludedFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.userOccluded = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

// SetDisplacementFunc installs the displacement callback of a
// subdivision geometry.
func (g *Geometry) SetDisplacementFunc(fn DisplacementFunc) {
	cbs := callbacksFor(g.h)
	cbMu.Lock()
	cbs.displacement = fn
	cbMu.Unlock()
	g.installCallbacks(cbs)
}

func (g *Geometry) installCallbacks(cbs *geometryCallbacks) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		kernelInstallCallbacks(g.h, cbs)
	}
}

// Close releases the kernel geometry and its callback registrations.
// Scenes the geometry is attached to keep it alive inside the kernel
// until they release it; the Go wrapper becomes unusable immediately.
// Close is idempotent.
func (g *Geometry) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	runtime.SetFinalizer(g, nil)
	kernelReleaseGeometry(g.h)
	g.h = 0
	g.shared = nil
	return nil
}

// raw returns the kernel handle for attach calls.
func (g *Geometry) raw() (handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, ErrClosed
	}
	return g.h, nil
}
