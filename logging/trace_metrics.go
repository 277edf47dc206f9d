package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// BuildMetrics summarizes one acceleration structure build.
// Implements zapcore.ObjectMarshaler so it logs as a nested object.
type BuildMetrics struct {
	// SceneID identifies the scene that was built
	SceneID string `json:"scene_id"`

	// Geometries is the number of attached geometries
	Geometries int `json:"geometries"`

	// Primitives is the total primitive count across geometries
	Primitives int `json:"primitives"`

	// Quality is the build quality name (low, medium, high, refit)
	Quality string `json:"quality"`

	// Duration is the wall time the build took
	Duration time.Duration `json:"duration"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Duration is
// encoded in milliseconds.
func (m BuildMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("scene_id", m.SceneID)
	enc.AddInt("geometries", m.Geometries)
	enc.AddInt("primitives", m.Primitives)
	enc.AddString("quality", m.Quality)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	return nil
}

// TraceMetrics summarizes a batch of ray queries.
// Implements zapcore.ObjectMarshaler.
type TraceMetrics struct {
	// Rays is the number of rays traced in the batch
	Rays int `json:"rays"`

	// Width is the query width used (1, 4, or the stream length)
	Width int `json:"width"`

	// Hits is the number of rays that found an intersection
	Hits int `json:"hits"`

	// Duration is the wall time the batch took
	Duration time.Duration `json:"duration"`

	// RaysPerSecond is Rays / Duration.Seconds()
	RaysPerSecond float64 `json:"rays_per_second"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m TraceMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("rays", m.Rays)
	enc.AddInt("width", m.Width)
	enc.AddInt("hits", m.Hits)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	enc.AddFloat64("rays_per_second", m.RaysPerSecond)
	return nil
}

// NewTraceMetrics computes derived fields from raw counts and timing.
func NewTraceMetrics(rays, width, hits int, duration time.Duration) TraceMetrics {
	m := TraceMetrics{
		Rays:     rays,
		Width:    width,
		Hits:     hits,
		Duration: duration,
	}
	if secs := duration.Seconds(); secs > 0 {
		m.RaysPerSecond = float64(rays) / secs
	}
	return m
}
