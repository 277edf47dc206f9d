package rtkernel

import (
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lightfold/raykit/logging"
	"github.com/lightfold/raykit/raystream"
)

// Scene is a container of geometries plus the acceleration structure
// built over them. Attach geometries, commit, then trace. After any
// attach, detach, or geometry change the scene must be committed again
// before its next query. A Scene is safe for concurrent use; queries
// against a committed scene may run from many goroutines at once.
type Scene struct {
	mu     sync.Mutex
	h      handle
	dev    *Device
	id      string
	geoms   map[uint32]*Geometry
	quality BuildQuality
	log     *zap.Logger
	closed  bool
}

// NewScene creates an empty scene on the device.
func (d *Device) NewScene() (*Scene, error) {
	dh, err := d.raw()
	if err != nil {
		return nil, err
	}
	h, err := kernelNewScene(dh)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		h:     h,
		dev:   d,
		id:    uuid.NewString(),
		geoms: make(map[uint32]*Geometry),
	}
	s.log = logging.L().Named("rtkernel").With(zap.String("scene_id", s.id))
	runtime.SetFinalizer(s, func(s *Scene) { _ = s.Close() })
	return s, nil
}

// ID returns the per-instance identifier used in log fields.
func (s *Scene) ID() string { return s.id }

// Attach adds a geometry to the scene and returns the geometry id
// rays will report for it. Ids of detached geometries are reused.
func (s *Scene) Attach(g *Geometry) (uint32, error) {
	gh, err := g.raw()
	if err != nil {
		return raystream.InvalidID, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return raystream.InvalidID, ErrClosed
	}
	id := kernelAttachGeometry(s.h, gh)
	if id == raystream.InvalidID {
		return id, errFromCode("scene.attach", codeInvalidOperation, "attach failed")
	}
	s.geoms[id] = g
	return id, nil
}

// AttachByID adds a geometry under a caller-chosen id, replacing any
// geometry already attached under it.
func (s *Scene) AttachByID(g *Geometry, id uint32) error {
	gh, err := g.raw()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	kernelAttachGeometryByID(s.h, gh, id)
	s.geoms[id] = g
	return nil
}

// Detach removes the geometry attached under id. Detaching an unknown
// id is a no-op.
func (s *Scene) Detach(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	kernelDetachGeometry(s.h, id)
	delete(s.geoms, id)
}

// Geometry returns the geometry attached under id, as reported in a
// hit's GeomID.
func (s *Scene) Geometry(id uint32) (*Geometry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.geoms[id]
	return g, ok
}

// GeometryCount returns the number of attached geometries.
func (s *Scene) GeometryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.geoms)
}

// SetFlags sets the scene traversal and build flags. Takes effect at
// the next commit.
func (s *Scene) SetFlags(flags SceneFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		kernelSetSceneFlags(s.h, flags)
	}
}

// Flags returns the scene flags.
func (s *Scene) Flags() SceneFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return SceneFlagNone
	}
	return kernelGetSceneFlags(s.h)
}

// SetBuildQuality sets the acceleration structure build quality.
// Takes effect at the next commit.
func (s *Scene) SetBuildQuality(q BuildQuality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		kernelSetSceneBuildQuality(s.h, q)
		s.quality = q
	}
}

// SetProgressMonitor installs fn to observe build progress during
// Commit. Returning false from fn cancels the build, which then fails
// with ErrCancelled. A nil fn clears the monitor.
//
// Progress is also logged at debug level, throttled to once per
// second so fine-grained kernels cannot flood the log.
func (s *Scene) SetProgressMonitor(fn ProgressFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if fn == nil {
		setProgress(s.h, nil)
		kernelSetProgressMonitor(s.h, false)
		return
	}
	lim := rate.NewLimiter(rate.Every(time.Second), 1)
	log := s.log
	setProgress(s.h, func(done float64) bool {
		if lim.Allow() {
			log.Debug("build progress", zap.Float64("done", done))
		}
		return fn(done)
	})
	kernelSetProgressMonitor(s.h, true)
}

// Commit builds the acceleration structure over the attached,
// committed geometries. Queries must not overlap a commit.
func (s *Scene) Commit() error {
	return s.commit(kernelCommitScene)
}

// JoinCommit is Commit for goroutines cooperating on one build: every
// caller blocks until the shared build finishes. With the stub
// backend it behaves exactly like Commit.
func (s *Scene) JoinCommit() error {
	return s.commit(kernelJoinCommitScene)
}

func (s *Scene) commit(fn func(handle) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	h := s.h
	count := len(s.geoms)
	quality := s.quality
	attached := make([]*Geometry, 0, count)
	for _, g := range s.geoms {
		attached = append(attached, g)
	}
	s.mu.Unlock()

	prims := 0
	for _, g := range attached {
		prims += g.primitiveCount()
	}

	start := time.Now()
	if err := fn(h); err != nil {
		s.log.Error("scene build failed", zap.Error(err))
		return err
	}
	s.log.Info("scene committed", logging.BuildFields(logging.BuildMetrics{
		SceneID:    s.id,
		Geometries: count,
		Primitives: prims,
		Quality:    quality.String(),
		Duration:   time.Since(start),
	}))
	return nil
}

// Bounds returns the axis-aligned bounds of the committed scene. An
// empty scene reports inverted infinite bounds.
func (s *Scene) Bounds() (Bounds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Bounds{}, ErrClosed
	}
	return kernelSceneBounds(s.h), nil
}

// Intersect traces one ray and records the nearest hit in rh.Hit.
// The ray's TNear and TFar bound the search; on a hit TFar shrinks to
// the hit distance. On a miss rh.Hit is left untouched, so a hit
// initialized by NewHit reports GeomID == InvalidID.
func (s *Scene) Intersect(ctx *IntersectContext, rh *raystream.RayHit) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	ctx = prepareContext(ctx)
	kernelIntersect1(h, ctx, rh)
	return nil
}

// Occluded traces one ray and reports whether anything lies in
// [TNear, TFar]. An occluded ray's TFar is set to -Inf; a clear ray
// is left untouched.
func (s *Scene) Occluded(ctx *IntersectContext, r *raystream.Ray) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	ctx = prepareContext(ctx)
	kernelOccluded1(h, ctx, r)
	return nil
}

// Intersect4 traces a 4-wide packet. Lanes whose valid entry is
// raystream.LaneInactive are skipped and their memory left untouched.
func (s *Scene) Intersect4(valid *raystream.ValidMask4, ctx *IntersectContext, rh *raystream.RayHit4) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	ctx = prepareContext(ctx)
	kernelIntersect4(valid, h, ctx, rh)
	return nil
}

// Occluded4 is the occlusion query for a 4-wide packet.
func (s *Scene) Occluded4(valid *raystream.ValidMask4, ctx *IntersectContext, r *raystream.Ray4) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	ctx = prepareContext(ctx)
	kernelOccluded4(valid, h, ctx, r)
	return nil
}

// IntersectNp traces every lane of an arbitrary-length stream in one
// kernel call. A zero-length stream is a no-op.
func (s *Scene) IntersectNp(ctx *IntersectContext, rh *raystream.RayHitNp) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	n := rh.Ray.Len()
	if n == 0 {
		return nil
	}
	ctx = prepareContext(ctx)
	kernelIntersectNp(h, ctx, rh.Raw(), n)
	return nil
}

// OccludedNp is the occlusion query for an arbitrary-length stream.
func (s *Scene) OccludedNp(ctx *IntersectContext, r *raystream.RayNp) error {
	h, err := s.queryHandle()
	if err != nil {
		return err
	}
	n := r.Len()
	if n == 0 {
		return nil
	}
	ctx = prepareContext(ctx)
	kernelOccludedNp(h, ctx, r.Raw(), n)
	return nil
}

// Close releases the kernel scene and its progress registration.
// Attached geometries are not closed; they may be attached to other
// scenes. Close is idempotent.
func (s *Scene) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	setProgress(s.h, nil)
	kernelReleaseScene(s.h)
	s.h = 0
	s.geoms = nil
	return nil
}

func (s *Scene) queryHandle() (handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.h, nil
}

// prepareContext resets the instancing stack of ctx, or supplies a
// fresh incoherent context when ctx is nil.
func prepareContext(ctx *IntersectContext) *IntersectContext {
	if ctx == nil {
		return NewIntersectContext(QueryIncoherent)
	}
	ctx.reset()
	return ctx
}
