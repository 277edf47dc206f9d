//go:build !embree || !cgo

// Stub implementation of the kernel bindings for when the native ray
// tracing library is not available.
// Build with: go build
// The native backend needs: CGO_ENABLED=1 go build -tags embree

package rtkernel

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/lightfold/raykit/raystream"
)

// The stub keeps the full device/scene/geometry lifecycle in Go maps
// and answers every query as a miss against an empty scene: ray and
// hit memory is left untouched, so freshly initialized streams report
// geomID == InvalidID exactly as the native kernel would. This keeps
// allocation, layout, and plumbing code testable without the library.

// stubHandleCounter generates unique synthetic handles.
var stubHandleCounter uint64

func newStubHandle() handle {
	return handle(atomic.AddUint64(&stubHandleCounter, 1))
}

type stubDevice struct {
	config  string
	pending error
}

type stubScene struct {
	device    handle
	flags     SceneFlags
	quality   BuildQuality
	geoms     map[uint32]handle
	committed bool
	progress  bool
}

type stubGeometry struct {
	device    handle
	kind      GeometryKind
	buffers   map[stubBufferKey]stubBufferRec
	timeSteps uint32
	userPrims int
	quality   BuildQuality
	enabled   bool
	committed bool
}

type stubBufferKey struct {
	usage BufferUsage
	slot  uint32
}

type stubBufferRec struct {
	format    Format
	data      unsafe.Pointer
	itemCount int
}

var (
	stubMu         sync.Mutex
	stubDevices    = make(map[handle]*stubDevice)
	stubScenes     = make(map[handle]*stubScene)
	stubGeometries = make(map[handle]*stubGeometry)
)

// kernelBackend reports which binding implementation is linked in.
func kernelBackend() string {
	return "stub (no native ray tracing library linked)"
}

func kernelNewDevice(config string) (handle, error) {
	h := newStubHandle()
	stubMu.Lock()
	stubDevices[h] = &stubDevice{config: config}
	stubMu.Unlock()
	return h, nil
}

func kernelReleaseDevice(h handle) {
	stubMu.Lock()
	delete(stubDevices, h)
	stubMu.Unlock()
}

// kernelInstallErrorHandler is a no-op in the stub: without a native
// kernel there are no asynchronous error reports, so every failure is
// returned from the call that caused it.
func kernelInstallErrorHandler(h handle) {}

// kernelDeviceError returns and clears the device's sticky error.
func kernelDeviceError(h handle) error {
	stubMu.Lock()
	defer stubMu.Unlock()
	dev, ok := stubDevices[h]
	if !ok {
		return errFromCode("device.error", codeInvalidOperation, "unknown device handle")
	}
	err := dev.pending
	dev.pending = nil
	return err
}

func kernelNewScene(dev handle) (handle, error) {
	stubMu.Lock()
	defer stubMu.Unlock()
	if _, ok := stubDevices[dev]; !ok {
		return 0, errFromCode("scene.new", codeInvalidOperation, "device already released")
	}
	h := newStubHandle()
	stubScenes[h] = &stubScene{
		device:  dev,
		quality: BuildQualityMedium,
		geoms:   make(map[uint32]handle),
	}
	return h, nil
}

func kernelReleaseScene(h handle) {
	stubMu.Lock()
	delete(stubScenes, h)
	stubMu.Unlock()
}

func kernelSetSceneFlags(h handle, flags SceneFlags) {
	stubMu.Lock()
	if s, ok := stubScenes[h]; ok {
		s.flags = flags
	}
	stubMu.Unlock()
}

func kernelGetSceneFlags(h handle) SceneFlags {
	stubMu.Lock()
	defer stubMu.Unlock()
	if s, ok := stubScenes[h]; ok {
		return s.flags
	}
	return SceneFlagNone
}

func kernelSetSceneBuildQuality(h handle, q BuildQuality) {
	stubMu.Lock()
	if s, ok := stubScenes[h]; ok {
		s.quality = q
	}
	stubMu.Unlock()
}

// kernelAttachGeometry assigns the lowest free geometry id.
func kernelAttachGeometry(scene, geom handle) uint32 {
	stubMu.Lock()
	defer stubMu.Unlock()
	s, ok := stubScenes[scene]
	if !ok {
		return raystream.InvalidID
	}
	var id uint32
	for {
		if _, taken := s.geoms[id]; !taken {
			break
		}
		id++
	}
	s.geoms[id] = geom
	s.committed = false
	return id
}

func kernelAttachGeometryByID(scene, geom handle, id uint32) {
	stubMu.Lock()
	if s, ok := stubScenes[scene]; ok {
		s.geoms[id] = geom
		s.committed = false
	}
	stubMu.Unlock()
}

func kernelDetachGeometry(scene handle, id uint32) {
	stubMu.Lock()
	if s, ok := stubScenes[scene]; ok {
		delete(s.geoms, id)
		s.committed = false
	}
	stubMu.Unlock()
}

// kernelCommitScene builds the acceleration structure. The stub has
// nothing to build but still drives a registered progress monitor so
// cancellation behaves the same in both backends.
func kernelCommitScene(h handle) error {
	stubMu.Lock()
	s, ok := stubScenes[h]
	if !ok {
		stubMu.Unlock()
		return errFromCode("scene.commit", codeInvalidOperation, "scene already released")
	}
	progress := s.progress
	s.committed = true
	stubMu.Unlock()

	if progress {
		if fn := lookupProgress(h); fn != nil && !fn(1.0) {
			return errFromCode("scene.commit", codeCancelled, "build cancelled by progress monitor")
		}
	}
	return nil
}

func kernelJoinCommitScene(h handle) error {
	return kernelCommitScene(h)
}

// kernelSceneBounds reports inverted bounds for the empty scene.
func kernelSceneBounds(h handle) Bounds {
	inf := math32.Inf(1)
	return Bounds{
		Lower: [3]float32{inf, inf, inf},
		Upper: [3]float32{-inf, -inf, -inf},
	}
}

func kernelSetProgressMonitor(h handle, enabled bool) {
	stubMu.Lock()
	if s, ok := stubScenes[h]; ok {
		s.progress = enabled
	}
	stubMu.Unlock()
}

func kernelNewGeometry(dev handle, kind GeometryKind) (handle, error) {
	stubMu.Lock()
	defer stubMu.Unlock()
	if _, ok := stubDevices[dev]; !ok {
		return 0, errFromCode("geometry.new", codeInvalidOperation, "device already released")
	}
	h := newStubHandle()
	stubGeometries[h] = &stubGeometry{
		device:    dev,
		kind:      kind,
		buffers:   make(map[stubBufferKey]stubBufferRec),
		timeSteps: 1,
		enabled:   true,
	}
	return h, nil
}

func kernelReleaseGeometry(h handle) {
	stubMu.Lock()
	delete(stubGeometries, h)
	stubMu.Unlock()
	dropCallbacks(h)
}

func kernelSetGeometryBuffer(geom handle, usage BufferUsage, slot uint32, format Format, data unsafe.Pointer, byteOffset, byteStride uintptr, itemCount int) error {
	stubMu.Lock()
	defer stubMu.Unlock()
	g, ok := stubGeometries[geom]
	if !ok {
		return errFromCode("geometry.setbuffer", codeInvalidOperation, "geometry already released")
	}
	if byteStride%4 != 0 {
		return errFromCode("geometry.setbuffer", codeInvalidArgument, "buffer stride must be a multiple of 4")
	}
	g.buffers[stubBufferKey{usage: usage, slot: slot}] = stubBufferRec{
		format:    format,
		data:      unsafe.Add(data, byteOffset),
		itemCount: itemCount,
	}
	g.committed = false
	return nil
}

func kernelCommitGeometry(h handle) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.committed = true
	}
	stubMu.Unlock()
}

func kernelEnableGeometry(h handle) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.enabled = true
	}
	stubMu.Unlock()
}

func kernelDisableGeometry(h handle) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.enabled = false
	}
	stubMu.Unlock()
}

func kernelSetGeometryBuildQuality(h handle, q BuildQuality) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.quality = q
	}
	stubMu.Unlock()
}

func kernelSetGeometryTimeStepCount(h handle, n uint32) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.timeSteps = n
	}
	stubMu.Unlock()
}

func kernelSetGeometryUserPrimitiveCount(h handle, n int) {
	stubMu.Lock()
	if g, ok := stubGeometries[h]; ok {
		g.userPrims = n
	}
	stubMu.Unlock()
}

func kernelSetGeometryTransform(h handle, timeStep uint32, format Format, xfm unsafe.Pointer) {
	// The stub never traverses instances.
}

func kernelSetGeometryInstancedScene(geom, scene handle) {
	// The stub never traverses instances.
}

func kernelSetGeometryTessellationRate(h handle, rate float32) {
	// Subdivision tessellation happens only in the native kernel.
}

func kernelSetGeometrySubdivisionMode(h handle, topologyID uint32, mode SubdivisionMode) {
	// Subdivision tessellation happens only in the native kernel.
}

func kernelSetGeometryVertexAttributeCount(h handle, n uint32) {
	stubMu.Lock()
	_, _ = stubGeometries[h], n
	stubMu.Unlock()
}

// kernelInstallCallbacks tells the native backend which trampolines to
// install for a geometry. The Go-side registry is shared, so the stub
// has nothing to do.
func kernelInstallCallbacks(h handle, cbs *geometryCallbacks) {}

// Query entry points. The stub's scene is always empty, so every ray
// misses: intersect leaves the hit's InvalidID defaults in place and
// occluded leaves tfar unchanged.

func kernelIntersect1(scene handle, ctx *IntersectContext, rh *raystream.RayHit) {}

func kernelOccluded1(scene handle, ctx *IntersectContext, r *raystream.Ray) {}

func kernelIntersect4(valid *raystream.ValidMask4, scene handle, ctx *IntersectContext, rh *raystream.RayHit4) {
}

func kernelOccluded4(valid *raystream.ValidMask4, scene handle, ctx *IntersectContext, r *raystream.Ray4) {
}

func kernelIntersectNp(scene handle, ctx *IntersectContext, raw raystream.RawRayHitNp, n int) {}

func kernelOccludedNp(scene handle, ctx *IntersectContext, raw raystream.RawRayNp, n int) {}
