//go:build embree && cgo

package rtkernel

/*
#include <stdbool.h>
#include <embree3/rtcore.h>
*/
import "C"

import (
	"unsafe"

	"github.com/lightfold/raykit/raystream"
)

// rayNBytes is the size of the ray half of an RTCRayHitN block: the
// hit fields start right after the packed ray fields.
func rayNBytes(n int) uintptr {
	return uintptr(12 * 4 * n)
}

//export goIntersectFilter
func goIntersectFilter(args *C.struct_RTCFilterFunctionNArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.intersectFilter == nil {
		return
	}
	n := int(args.N)
	valid := unsafe.Slice((*int32)(unsafe.Pointer(args.valid)), n)
	ray := raystream.RayNFromPointer(unsafe.Pointer(args.ray), n)
	hit := raystream.HitNFromPointer(unsafe.Pointer(args.hit), n)
	cbs.intersectFilter(valid, ray, hit)
}

//export goOccludedFilter
func goOccludedFilter(args *C.struct_RTCFilterFunctionNArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.occludedFilter == nil {
		return
	}
	n := int(args.N)
	valid := unsafe.Slice((*int32)(unsafe.Pointer(args.valid)), n)
	ray := raystream.RayNFromPointer(unsafe.Pointer(args.ray), n)
	hit := raystream.HitNFromPointer(unsafe.Pointer(args.hit), n)
	cbs.occludedFilter(valid, ray, hit)
}

//export goUserBounds
func goUserBounds(args *C.struct_RTCBoundsFunctionArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.userBounds == nil {
		return
	}
	b := cbs.userBounds(uint32(args.primID), uint32(args.timeStep))
	out := args.bounds_o
	out.lower_x = C.float(b.Lower[0])
	out.lower_y = C.float(b.Lower[1])
	out.lower_z = C.float(b.Lower[2])
	out.upper_x = C.float(b.Upper[0])
	out.upper_y = C.float(b.Upper[1])
	out.upper_z = C.float(b.Upper[2])
}

//export goUserIntersect
func goUserIntersect(args *C.struct_RTCIntersectFunctionNArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.userIntersect == nil {
		return
	}
	n := int(args.N)
	valid := unsafe.Slice((*int32)(unsafe.Pointer(args.valid)), n)
	base := unsafe.Pointer(args.rayhit)
	ray := raystream.RayNFromPointer(base, n)
	hit := raystream.HitNFromPointer(unsafe.Add(base, rayNBytes(n)), n)
	cbs.userIntersect(valid, uint32(args.geomID), uint32(args.primID), ray, hit)
}

//export goUserOccluded
func goUserOccluded(args *C.struct_RTCOccludedFunctionNArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.userOccluded == nil {
		return
	}
	n := int(args.N)
	valid := unsafe.Slice((*int32)(unsafe.Pointer(args.valid)), n)
	ray := raystream.RayNFromPointer(unsafe.Pointer(args.ray), n)
	cbs.userOccluded(valid, uint32(args.geomID), uint32(args.primID), ray)
}

//export goDisplacement
func goDisplacement(args *C.struct_RTCDisplacementFunctionNArguments) {
	cbs := lookupCallbacks(handle(uintptr(args.geometryUserPtr)))
	if cbs == nil || cbs.displacement == nil {
		return
	}
	n := int(args.N)
	f := func(p *C.float) []float32 {
		return unsafe.Slice((*float32)(unsafe.Pointer(p)), n)
	}
	cbs.displacement(
		uint32(args.primID), uint32(args.timeStep),
		f(args.u), f(args.v),
		f(args.Ng_x), f(args.Ng_y), f(args.Ng_z),
		f(args.P_x), f(args.P_y), f(args.P_z),
	)
}

//export goContextFilter
func goContextFilter(args *C.struct_RTCFilterFunctionNArguments) {
	fn := lookupContextFilter(uintptr(unsafe.Pointer(args.context)))
	if fn == nil {
		return
	}
	n := int(args.N)
	valid := unsafe.Slice((*int32)(unsafe.Pointer(args.valid)), n)
	ray := raystream.RayNFromPointer(unsafe.Pointer(args.ray), n)
	hit := raystream.HitNFromPointer(unsafe.Pointer(args.hit), n)
	fn(valid, ray, hit)
}

//export goDeviceError
func goDeviceError(userPtr unsafe.Pointer, code C.enum_RTCError, str *C.char) {
	fn := lookupDeviceError(handle(uintptr(userPtr)))
	if fn == nil {
		return
	}
	fn(int(code), C.GoString(str))
}

//export goProgressMonitor
func goProgressMonitor(ptr unsafe.Pointer, done C.double) C.bool {
	fn := lookupProgress(handle(uintptr(ptr)))
	if fn == nil {
		return C.bool(true)
	}
	return C.bool(fn(float64(done)))
}
