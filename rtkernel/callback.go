package rtkernel

import (
	"sync"

	"github.com/lightfold/raykit/raystream"
)

// Callback marshaling. Go functions cannot be handed to the kernel as C
// function pointers, so callbacks are registered here keyed by the
// kernel handle they belong to, and the native backend installs fixed C
// trampolines that look the Go function up by handle on every
// invocation. The stub backend stores registrations the same way but
// only the error and progress paths can ever fire.

// FilterFunc is invoked for every candidate intersection during
// traversal. valid holds raystream.LaneActive (-1) for lanes to keep;
// writing raystream.LaneInactive (0) rejects the lane's hit. The ray
// and hit views alias kernel-owned memory and must not be retained.
type FilterFunc func(valid []int32, ray raystream.RayN, hit raystream.HitN)

// UserBoundsFunc reports the bounds of one primitive of a user geometry
// at one motion time step.
type UserBoundsFunc func(primID, timeStep uint32) Bounds

// UserIntersectFunc implements the intersect query for one primitive of
// a user geometry. Lanes that hit must write the hit view and shrink
// the ray's tfar.
type UserIntersectFunc func(valid []int32, geomID, primID uint32, ray raystream.RayN, hit raystream.HitN)

// UserOccludedFunc implements the occlusion query for one primitive of
// a user geometry. Lanes that hit must set the ray's tfar to -Inf.
type UserOccludedFunc func(valid []int32, geomID, primID uint32, ray raystream.RayN)

// DisplacementFunc displaces tessellated subdivision surface points in
// place. All slices have equal length: one entry per tessellated point,
// with (u, v) patch coordinates, geometry normals, and world positions
// to be displaced.
type DisplacementFunc func(primID, timeStep uint32, u, v []float32, ngX, ngY, ngZ, px, py, pz []float32)

// ProgressFunc observes long-running kernel builds. done is in
// [0.0, 1.0]. Returning false cancels the build, which then fails with
// ErrCancelled.
type ProgressFunc func(done float64) bool

// geometryCallbacks is the per-geometry registration record. Unset
// kinds stay nil; the trampolines check before dispatch.
type geometryCallbacks struct {
	intersectFilter FilterFunc
	occludedFilter  FilterFunc
	userBounds      UserBoundsFunc
	userIntersect   UserIntersectFunc
	userOccluded    UserOccludedFunc
	displacement    DisplacementFunc
}

// deviceErrorFunc receives asynchronous error reports from the kernel.
// The device installs one that marshals reports to its logger.
type deviceErrorFunc func(code int, msg string)

var (
	cbMu           sync.RWMutex
	geometryCBs    = make(map[handle]*geometryCallbacks)
	sceneProgress  = make(map[handle]ProgressFunc)
	deviceErrors   = make(map[handle]deviceErrorFunc)
	contextFilters = make(map[uintptr]FilterFunc)
)

// setDeviceError registers fn as the error report sink for device h.
// fn == nil clears it.
func setDeviceError(h handle, fn deviceErrorFunc) {
	cbMu.Lock()
	if fn == nil {
		delete(deviceErrors, h)
	} else {
		deviceErrors[h] = fn
	}
	cbMu.Unlock()
}

// lookupDeviceError is called from the error report trampoline.
func lookupDeviceError(h handle) deviceErrorFunc {
	cbMu.RLock()
	defer cbMu.RUnlock()
	return deviceErrors[h]
}

// registerContextFilter binds fn to the address of a per-query kernel
// context for the duration of one query. The trampoline finds fn by
// the context pointer the kernel hands back.
func registerContextFilter(key uintptr, fn FilterFunc) {
	cbMu.Lock()
	contextFilters[key] = fn
	cbMu.Unlock()
}

func lookupContextFilter(key uintptr) FilterFunc {
	cbMu.RLock()
	defer cbMu.RUnlock()
	return contextFilters[key]
}

func dropContextFilter(key uintptr) {
	cbMu.Lock()
	delete(contextFilters, key)
	cbMu.Unlock()
}

// setProgress registers fn as the build progress monitor for scene h.
// fn == nil clears it.
func setProgress(h handle, fn ProgressFunc) {
	cbMu.Lock()
	if fn == nil {
		delete(sceneProgress, h)
	} else {
		sceneProgress[h] = fn
	}
	cbMu.Unlock()
}

// lookupProgress is called from the commit path and the C trampoline.
func lookupProgress(h handle) ProgressFunc {
	cbMu.RLock()
	defer cbMu.RUnlock()
	return sceneProgress[h]
}

// callbacksFor returns the registration record for h, creating it on
// first use. Caller must hold no callback locks.
func callbacksFor(h handle) *geometryCallbacks {
	cbMu.Lock()
	defer cbMu.Unlock()
	cbs, ok := geometryCBs[h]
	if !ok {
		cbs = &geometryCallbacks{}
		geometryCBs[h] = cbs
	}
	return cbs
}

// lookupCallbacks returns the registration record for h, or nil.
// Called from the C trampolines.
func lookupCallbacks(h handle) *geometryCallbacks {
	cbMu.RLock()
	defer cbMu.RUnlock()
	return geometryCBs[h]
}

// dropCallbacks removes all registrations for h. Called on geometry
// release so the registry cannot leak handles.
func dropCallbacks(h handle) {
	cbMu.Lock()
	defer cbMu.Unlock()
	delete(geometryCBs, h)
}
