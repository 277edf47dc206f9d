// Package rtkernel provides Go bindings to a native ray-tracing kernel
// library. It wraps the kernel's C handles (device, scene, geometry,
// buffer) in lifetime-tracked Go types, maps buffer formats and usage
// slots, and marshals filter and user-geometry callbacks across the
// foreign-function boundary.
//
// The kernel itself (BVH construction, traversal, intersection math,
// subdivision evaluation, instancing) is an opaque external capability.
// This package only forwards calls and memory layout to it; the layout
// types live in the raystream package.
//
// Two kernel backends exist, selected at build time:
//   - the real native library (build tags: cgo and embree), linked
//     through the declarations in bindings.go;
//   - a pure-Go stub (the default) that tracks handles but behaves like
//     an empty scene: queries run to completion and find nothing. The
//     stub exists for tests and for building on machines without the
//     native library, mirroring the contract that a miss leaves ray and
//     hit memory untouched.
package rtkernel
