//go:build embree && cgo

// Native implementation of the kernel bindings over the Embree C API.
// Build with: CGO_ENABLED=1 go build -tags embree
//
// Prerequisites:
//  1. Embree installed as a shared library (libembree3)
//  2. Headers reachable via CGO_CFLAGS, e.g. -I/opt/embree/include
//  3. Library reachable via CGO_LDFLAGS, e.g. -L/opt/embree/lib -lembree3

package rtkernel

/*
#cgo LDFLAGS: -lembree3 -lm
#cgo linux LDFLAGS: -Wl,-rpath,/usr/local/lib

#include <stdlib.h>
#include <stdint.h>
#include <embree3/rtcore.h>

// Trampolines defined on the Go side. Geometry callbacks carry the Go
// handle in the geometry user pointer; the progress monitor carries
// the scene handle in its user pointer.
extern void goIntersectFilter(const struct RTCFilterFunctionNArguments* args);
extern void goOccludedFilter(const struct RTCFilterFunctionNArguments* args);
extern void goUserBounds(const struct RTCBoundsFunctionArguments* args);
extern void goUserIntersect(const struct RTCIntersectFunctionNArguments* args);
extern void goUserOccluded(const struct RTCOccludedFunctionNArguments* args);
extern void goDisplacement(const struct RTCDisplacementFunctionNArguments* args);
extern bool goProgressMonitor(void* ptr, double n);
extern void goContextFilter(const struct RTCFilterFunctionNArguments* args);
extern void goDeviceError(void* userPtr, enum RTCError code, const char* str);

static void setIntersectFilter(RTCGeometry geom, int enable) {
	rtcSetGeometryIntersectFilterFunction(geom, enable ? goIntersectFilter : NULL);
}

static void setOccludedFilter(RTCGeometry geom, int enable) {
	rtcSetGeometryOccludedFilterFunction(geom, enable ? goOccludedFilter : NULL);
}

static void setUserCallbacks(RTCGeometry geom, int bounds, int intersect, int occluded) {
	rtcSetGeometryBoundsFunction(geom, bounds ? goUserBounds : NULL, NULL);
	rtcSetGeometryIntersectFunction(geom, intersect ? goUserIntersect : NULL);
	rtcSetGeometryOccludedFunction(geom, occluded ? goUserOccluded : NULL);
}

static void setDisplacement(RTCGeometry geom, int enable) {
	rtcSetGeometryDisplacementFunction(geom, enable ? goDisplacement : NULL);
}

static void setProgressMonitor(RTCScene scene, int enable, void* handle) {
	rtcSetSceneProgressMonitorFunction(scene, enable ? goProgressMonitor : NULL, handle);
}

static void setErrorFunction(RTCDevice dev, void* handle) {
	rtcSetDeviceErrorFunction(dev, goDeviceError, handle);
}

static void setContextFilter(struct RTCIntersectContext* c) {
	c->filter = (RTCFilterFunctionN)goContextFilter;
}
*/
import "C"

import (
	"unsafe"

	"github.com/lightfold/raykit/raystream"
)

func kernelBackend() string {
	return "embree (native)"
}

func kernelNewDevice(config string) (handle, error) {
	cfg := C.CString(config)
	defer C.free(unsafe.Pointer(cfg))

	dev := C.rtcNewDevice(cfg)
	if dev == nil {
		code := C.rtcGetDeviceError(nil)
		return 0, errFromCode("device.new", int(code), "device creation failed")
	}
	return handle(unsafe.Pointer(dev)), nil
}

func kernelReleaseDevice(h handle) {
	C.rtcReleaseDevice(C.RTCDevice(unsafe.Pointer(h)))
}

func kernelInstallErrorHandler(h handle) {
	C.setErrorFunction(C.RTCDevice(unsafe.Pointer(h)), unsafe.Pointer(h))
}

func kernelDeviceError(h handle) error {
	code := C.rtcGetDeviceError(C.RTCDevice(unsafe.Pointer(h)))
	if code == C.RTC_ERROR_NONE {
		return nil
	}
	return errFromCode("device.error", int(code), "")
}

func kernelNewScene(dev handle) (handle, error) {
	scene := C.rtcNewScene(C.RTCDevice(unsafe.Pointer(dev)))
	if scene == nil {
		return 0, kernelDeviceError(dev)
	}
	return handle(unsafe.Pointer(scene)), nil
}

func kernelReleaseScene(h handle) {
	C.rtcReleaseScene(C.RTCScene(unsafe.Pointer(h)))
}

func kernelSetSceneFlags(h handle, flags SceneFlags) {
	C.rtcSetSceneFlags(C.RTCScene(unsafe.Pointer(h)), C.enum_RTCSceneFlags(flags))
}

func kernelGetSceneFlags(h handle) SceneFlags {
	return SceneFlags(C.rtcGetSceneFlags(C.RTCScene(unsafe.Pointer(h))))
}

func kernelSetSceneBuildQuality(h handle, q BuildQuality) {
	C.rtcSetSceneBuildQuality(C.RTCScene(unsafe.Pointer(h)), C.enum_RTCBuildQuality(q))
}

func kernelAttachGeometry(scene, geom handle) uint32 {
	return uint32(C.rtcAttachGeometry(
		C.RTCScene(unsafe.Pointer(scene)),
		C.RTCGeometry(unsafe.Pointer(geom)),
	))
}

func kernelAttachGeometryByID(scene, geom handle, id uint32) {
	C.rtcAttachGeometryByID(
		C.RTCScene(unsafe.Pointer(scene)),
		C.RTCGeometry(unsafe.Pointer(geom)),
		C.uint(id),
	)
}

func kernelDetachGeometry(scene handle, id uint32) {
	C.rtcDetachGeometry(C.RTCScene(unsafe.Pointer(scene)), C.uint(id))
}

func kernelCommitScene(h handle) error {
	C.rtcCommitScene(C.RTCScene(unsafe.Pointer(h)))
	return commitError(h)
}

func kernelJoinCommitScene(h handle) error {
	C.rtcJoinCommitScene(C.RTCScene(unsafe.Pointer(h)))
	return commitError(h)
}

// commitError maps the device's sticky error after a commit. A build
// cancelled by the progress monitor reports RTC_ERROR_CANCELLED.
func commitError(scene handle) error {
	dev := C.rtcGetSceneDevice(C.RTCScene(unsafe.Pointer(scene)))
	code := C.rtcGetDeviceError(dev)
	if code == C.RTC_ERROR_NONE {
		return nil
	}
	if code == C.RTC_ERROR_CANCELLED {
		return errFromCode("scene.commit", codeCancelled, "build cancelled by progress monitor")
	}
	return errFromCode("scene.commit", int(code), "")
}

func kernelSceneBounds(h handle) Bounds {
	var cb C.struct_RTCBounds
	C.rtcGetSceneBounds(C.RTCScene(unsafe.Pointer(h)), &cb)
	return Bounds{
		Lower: [3]float32{float32(cb.lower_x), float32(cb.lower_y), float32(cb.lower_z)},
		Upper: [3]float32{float32(cb.upper_x), float32(cb.upper_y), float32(cb.upper_z)},
	}
}

func kernelSetProgressMonitor(h handle, enabled bool) {
	var flag C.int
	if enabled {
		flag = 1
	}
	C.setProgressMonitor(C.RTCScene(unsafe.Pointer(h)), flag, unsafe.Pointer(h))
}

func kernelNewGeometry(dev handle, kind GeometryKind) (handle, error) {
	geom := C.rtcNewGeometry(C.RTCDevice(unsafe.Pointer(dev)), C.enum_RTCGeometryType(kind))
	if geom == nil {
		return 0, kernelDeviceError(dev)
	}
	h := handle(unsafe.Pointer(geom))
	// The user pointer lets trampolines find the Go-side registration.
	C.rtcSetGeometryUserData(geom, unsafe.Pointer(h))
	return h, nil
}

func kernelReleaseGeometry(h handle) {
	C.rtcReleaseGeometry(C.RTCGeometry(unsafe.Pointer(h)))
	dropCallbacks(h)
}

func kernelSetGeometryBuffer(geom handle, usage BufferUsage, slot uint32, format Format, data unsafe.Pointer, byteOffset, byteStride uintptr, itemCount int) error {
	C.rtcSetSharedGeometryBuffer(
		C.RTCGeometry(unsafe.Pointer(geom)),
		C.enum_RTCBufferType(usage),
		C.uint(slot),
		C.enum_RTCFormat(format),
		data,
		C.size_t(byteOffset),
		C.size_t(byteStride),
		C.size_t(itemCount),
	)
	return nil
}

func kernelCommitGeometry(h handle) {
	C.rtcCommitGeometry(C.RTCGeometry(unsafe.Pointer(h)))
}

func kernelEnableGeometry(h handle) {
	C.rtcEnableGeometry(C.RTCGeometry(unsafe.Pointer(h)))
}

func kernelDisableGeometry(h handle) {
	C.rtcDisableGeometry(C.RTCGeometry(unsafe.Pointer(h)))
}

func kernelSetGeometryBuildQuality(h handle, q BuildQuality) {
	C.rtcSetGeometryBuildQuality(C.RTCGeometry(unsafe.Pointer(h)), C.enum_RTCBuildQuality(q))
}

func kernelSetGeometryTimeStepCount(h handle, n uint32) {
	C.rtcSetGeometryTimeStepCount(C.RTCGeometry(unsafe.Pointer(h)), C.uint(n))
}

func kernelSetGeometryUserPrimitiveCount(h handle, n int) {
	C.rtcSetGeometryUserPrimitiveCount(C.RTCGeometry(unsafe.Pointer(h)), C.uint(n))
}

func kernelSetGeometryTransform(h handle, timeStep uint32, format Format, xfm unsafe.Pointer) {
	C.rtcSetGeometryTransform(
		C.RTCGeometry(unsafe.Pointer(h)),
		C.uint(timeStep),
		C.enum_RTCFormat(format),
		xfm,
	)
}

func kernelSetGeometryInstancedScene(geom, scene handle) {
	C.rtcSetGeometryInstancedScene(
		C.RTCGeometry(unsafe.Pointer(geom)),
		C.RTCScene(unsafe.Pointer(scene)),
	)
}

func kernelSetGeometryTessellationRate(h handle, rate float32) {
	C.rtcSetGeometryTessellationRate(C.RTCGeometry(unsafe.Pointer(h)), C.float(rate))
}

func kernelSetGeometrySubdivisionMode(h handle, topologyID uint32, mode SubdivisionMode) {
	C.rtcSetGeometrySubdivisionMode(
		C.RTCGeometry(unsafe.Pointer(h)),
		C.uint(topologyID),
		C.enum_RTCSubdivisionMode(mode),
	)
}

func kernelSetGeometryVertexAttributeCount(h handle, n uint32) {
	C.rtcSetGeometryVertexAttributeCount(C.RTCGeometry(unsafe.Pointer(h)), C.uint(n))
}

func kernelInstallCallbacks(h handle, cbs *geometryCallbacks) {
	geom := C.RTCGeometry(unsafe.Pointer(h))
	C.setIntersectFilter(geom, boolToC(cbs.intersectFilter != nil))
	C.setOccludedFilter(geom, boolToC(cbs.occludedFilter != nil))
	C.setUserCallbacks(geom,
		boolToC(cbs.userBounds != nil),
		boolToC(cbs.userIntersect != nil),
		boolToC(cbs.userOccluded != nil),
	)
	C.setDisplacement(geom, boolToC(cbs.displacement != nil))
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// cContext mirrors struct RTCIntersectContext for one query. A set
// per-query filter is registered under the context's address for the
// trampoline to find; the returned cleanup must run after the query.
func cContext(ctx *IntersectContext) (*C.struct_RTCIntersectContext, func()) {
	c := new(C.struct_RTCIntersectContext)
	c.flags = C.enum_RTCIntersectContextFlags(ctx.Flags)
	c.instID[0] = C.uint(ctx.instID[0])

	if ctx.Filter == nil {
		return c, func() {}
	}
	C.setContextFilter(c)
	key := uintptr(unsafe.Pointer(c))
	registerContextFilter(key, ctx.Filter)
	return c, func() { dropContextFilter(key) }
}

func kernelIntersect1(scene handle, ctx *IntersectContext, rh *raystream.RayHit) {
	c, done := cContext(ctx)
	defer done()
	arh, writeback := alignTo16(rh)
	defer writeback()
	C.rtcIntersect1(
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRayHit)(unsafe.Pointer(arh)),
	)
}

func kernelOccluded1(scene handle, ctx *IntersectContext, r *raystream.Ray) {
	c, done := cContext(ctx)
	defer done()
	ar, writeback := alignTo16(r)
	defer writeback()
	C.rtcOccluded1(
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRay)(unsafe.Pointer(ar)),
	)
}

func kernelIntersect4(valid *raystream.ValidMask4, scene handle, ctx *IntersectContext, rh *raystream.RayHit4) {
	c, done := cContext(ctx)
	defer done()
	av, maskBack := alignTo16(valid)
	defer maskBack()
	arh, writeback := alignTo16(rh)
	defer writeback()
	C.rtcIntersect4(
		(*C.int)(unsafe.Pointer(av)),
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRayHit4)(unsafe.Pointer(arh)),
	)
}

func kernelOccluded4(valid *raystream.ValidMask4, scene handle, ctx *IntersectContext, r *raystream.Ray4) {
	c, done := cContext(ctx)
	defer done()
	av, maskBack := alignTo16(valid)
	defer maskBack()
	ar, writeback := alignTo16(r)
	defer writeback()
	C.rtcOccluded4(
		(*C.int)(unsafe.Pointer(av)),
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRay4)(unsafe.Pointer(ar)),
	)
}

func kernelIntersectNp(scene handle, ctx *IntersectContext, raw raystream.RawRayHitNp, n int) {
	c, done := cContext(ctx)
	defer done()
	// RawRayHitNp lays its pointer tables out field for field like
	// struct RTCRayHitNp, so the raw view can be passed directly.
	C.rtcIntersectNp(
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRayHitNp)(unsafe.Pointer(&raw)),
		C.uint(n),
	)
}

func kernelOccludedNp(scene handle, ctx *IntersectContext, raw raystream.RawRayNp, n int) {
	c, done := cContext(ctx)
	defer done()
	C.rtcOccludedNp(
		C.RTCScene(unsafe.Pointer(scene)),
		c,
		(*C.struct_RTCRayNp)(unsafe.Pointer(&raw)),
		C.uint(n),
	)
}
