// Package raystream provides the ray and hit containers handed to the
// native ray-tracing kernel: single rays, packets of 4, and batched
// streams in SoA (structure-of-arrays) layout.
//
// The stream types (RayNp, HitNp, RayHitNp) own a single contiguous,
// 16-byte-aligned arena in which every field (origin x, origin y, ...,
// geometry id) occupies its own slice. The field order and per-field
// stride are a bit-exact contract with the kernel; see the layout
// constants in stream.go. All public accessors are bounds-checked; the
// only unsafe code lives in the arena allocator and the raw pointer-table
// generators used at the foreign-call boundary.
//
// A stream is owned by exactly one goroutine at a time. Writing disjoint
// lanes from different goroutines is memory-safe, but the intended
// pattern is one stream per unit of work (for example one per image
// tile), never a shared stream.
package raystream
