package rtkernel

// Pure Go types and constants shared by both kernel backends.
// The enum values are the native library's wire values; do not renumber.

import "strconv"

// =============================================================================
// Handles
// =============================================================================

// handle is the kernel-side identity of an object. With the native
// backend it is the C pointer value; the stub backend issues synthetic
// ids. The zero handle is never valid.
type handle uintptr

// =============================================================================
// Geometry kinds
// =============================================================================

// GeometryKind selects the primitive type of a geometry at creation.
type GeometryKind uint32

const (
	GeometryTriangle    GeometryKind = 0
	GeometryQuad        GeometryKind = 1
	GeometryGrid        GeometryKind = 2
	GeometrySubdivision GeometryKind = 8

	GeometryFlatLinearCurve GeometryKind = 17

	GeometryRoundBezierCurve GeometryKind = 24
	GeometryFlatBezierCurve  GeometryKind = 25

	GeometryRoundBSplineCurve GeometryKind = 32
	GeometryFlatBSplineCurve  GeometryKind = 33

	GeometryFlatHermiteCurve GeometryKind = 41

	GeometrySpherePoint GeometryKind = 50

	GeometryFlatCatmullRomCurve GeometryKind = 59

	GeometryUser     GeometryKind = 120
	GeometryInstance GeometryKind = 121
)

// =============================================================================
// Buffer usage slots
// =============================================================================

// BufferUsage assigns a data buffer to one of the kernel's geometry
// slots. Most geometry types use Index and Vertex; the remaining slots
// serve curves (Normal, Tangent, Flags), grids (Grid), and subdivision
// meshes (Face through Hole).
type BufferUsage uint32

const (
	BufferIndex            BufferUsage = 0
	BufferVertex           BufferUsage = 1
	BufferVertexAttribute  BufferUsage = 2
	BufferNormal           BufferUsage = 3
	BufferTangent          BufferUsage = 4
	BufferNormalDerivative BufferUsage = 5

	BufferGrid BufferUsage = 8

	BufferFace               BufferUsage = 16
	BufferLevel              BufferUsage = 17
	BufferEdgeCreaseIndex    BufferUsage = 18
	BufferEdgeCreaseWeight   BufferUsage = 19
	BufferVertexCreaseIndex  BufferUsage = 20
	BufferVertexCreaseWeight BufferUsage = 21
	BufferHole               BufferUsage = 22

	BufferFlags BufferUsage = 32
)

// =============================================================================
// Data formats
// =============================================================================

// Format describes the element layout of a bound buffer.
type Format uint32

const (
	FormatUndefined Format = 0

	FormatUint  Format = 0x5001
	FormatUint2 Format = 0x5002
	FormatUint3 Format = 0x5003
	FormatUint4 Format = 0x5004

	FormatFloat  Format = 0x9001
	FormatFloat2 Format = 0x9002
	FormatFloat3 Format = 0x9003
	FormatFloat4 Format = 0x9004

	FormatFloat3x4RowMajor    Format = 0x9134
	FormatFloat4x4RowMajor    Format = 0x9144
	FormatFloat3x4ColumnMajor Format = 0x9234
	FormatFloat4x4ColumnMajor Format = 0x9244

	FormatGrid Format = 0xA001
)

// ElemSize returns the byte size of one element of the format, or 0 for
// formats without a fixed element size.
func (f Format) ElemSize() int {
	switch f {
	case FormatUint, FormatFloat:
		return 4
	case FormatUint2, FormatFloat2:
		return 8
	case FormatUint3, FormatFloat3:
		return 12
	case FormatUint4, FormatFloat4:
		return 16
	case FormatFloat3x4RowMajor, FormatFloat3x4ColumnMajor:
		return 48
	case FormatFloat4x4RowMajor, FormatFloat4x4ColumnMajor:
		return 64
	default:
		return 0
	}
}

// =============================================================================
// Scene flags and build quality
// =============================================================================

// SceneFlags tune the acceleration structure. Flags combine with OR.
type SceneFlags uint32

const (
	SceneFlagNone    SceneFlags = 0
	SceneFlagDynamic SceneFlags = 1 << 0
	SceneFlagCompact SceneFlags = 1 << 1
	SceneFlagRobust  SceneFlags = 1 << 2

	// SceneFlagContextFilter enables per-query filter functions carried
	// in the intersect context.
	SceneFlagContextFilter SceneFlags = 1 << 3
)

// BuildQuality selects the acceleration structure build strategy.
type BuildQuality uint32

const (
	BuildQualityLow    BuildQuality = 0
	BuildQualityMedium BuildQuality = 1
	BuildQualityHigh   BuildQuality = 2

	// BuildQualityRefit refits the existing structure when only vertex
	// positions changed.
	BuildQualityRefit BuildQuality = 3
)

func (q BuildQuality) String() string {
	switch q {
	case BuildQualityLow:
		return "low"
	case BuildQualityMedium:
		return "medium"
	case BuildQualityHigh:
		return "high"
	case BuildQualityRefit:
		return "refit"
	}
	return "unknown"
}

// SubdivisionMode selects the boundary interpolation rule of a
// subdivision mesh topology.
type SubdivisionMode uint32

const (
	SubdivisionNoBoundary     SubdivisionMode = 0
	SubdivisionSmoothBoundary SubdivisionMode = 1
	SubdivisionPinCorners     SubdivisionMode = 2
	SubdivisionPinBoundary    SubdivisionMode = 3
	SubdivisionPinAll         SubdivisionMode = 4
)

// =============================================================================
// Bounds
// =============================================================================

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Lower [3]float32
	Upper [3]float32
}

// =============================================================================
// Device configuration
// =============================================================================

const (
	// DefaultVerbosity disables kernel console output.
	DefaultVerbosity = 0

	// MaxVerbosity is the kernel's most talkative log level.
	MaxVerbosity = 4
)

// Config controls device creation. The zero value is usable; prefer
// DefaultConfig for clarity.
type Config struct {
	// Verbosity is the kernel's internal log level, 0 (silent) to
	// MaxVerbosity.
	Verbosity int

	// Threads caps the kernel's worker pool. 0 means one worker per
	// available hardware thread.
	Threads int

	// SetAffinity pins kernel worker threads to hardware threads.
	SetAffinity bool
}

// DefaultConfig returns a Config with sensible defaults: silent, one
// worker per hardware thread, no affinity pinning.
func DefaultConfig() Config {
	return Config{
		Verbosity: DefaultVerbosity,
	}
}

// configString renders the Config in the kernel's "key=value,key=value"
// device configuration syntax.
func (c Config) configString() string {
	s := ""
	if c.Verbosity > 0 {
		s = appendKV(s, "verbose", c.Verbosity)
	}
	if c.Threads > 0 {
		s = appendKV(s, "threads", c.Threads)
	}
	if c.SetAffinity {
		s = appendKV(s, "set_affinity", 1)
	}
	return s
}

func appendKV(s, key string, val int) string {
	kv := key + "=" + strconv.Itoa(val)
	if s == "" {
		return kv
	}
	return s + "," + kv
}
