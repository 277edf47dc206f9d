package rtkernel

import "github.com/lightfold/raykit/raystream"

// RayQueryFlags tune traversal for one query.
type RayQueryFlags uint32

const (
	// QueryIncoherent marks rays with unrelated origins or directions.
	// This is the default.
	QueryIncoherent RayQueryFlags = 0

	// QueryCoherent marks bundles of rays that travel together, which
	// lets the kernel pick packet-friendly traversal orders.
	QueryCoherent RayQueryFlags = 1
)

// IntersectContext carries per-query traversal state. The zero value
// is a valid incoherent context; callers reuse one context across a
// batch of related queries.
//
// Filter, when set, runs for every candidate intersection of the
// query in addition to any per-geometry filters. The scene must be
// built with SceneFlagContextFilter for the kernel to invoke it.
//
// The instID slot mirrors the kernel's instancing stack and must
// start out as InvalidID, which NewIntersectContext and the query
// entry points take care of.
type IntersectContext struct {
	Flags  RayQueryFlags
	Filter FilterFunc
	instID [instMaxDepth]uint32
}

const instMaxDepth = 1

// NewIntersectContext returns a context with the given query flags and
// a reset instancing stack.
func NewIntersectContext(flags RayQueryFlags) *IntersectContext {
	ctx := &IntersectContext{Flags: flags}
	ctx.reset()
	return ctx
}

// reset prepares the context for a fresh query.
func (c *IntersectContext) reset() {
	for i := range c.instID {
		c.instID[i] = raystream.InvalidID
	}
}
