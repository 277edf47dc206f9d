package logging

import (
	"time"

	"go.uber.org/zap"
)

// BuildFields wraps build metrics into a single structured field.
//
// Example:
//
//	logger.Info("scene committed", logging.BuildFields(metrics))
func BuildFields(metrics BuildMetrics) zap.Field {
	return zap.Object("build", metrics)
}

// TraceFields wraps trace metrics into a single structured field.
func TraceFields(metrics TraceMetrics) zap.Field {
	return zap.Object("trace", metrics)
}

// RayFields is a convenience for logging ray counts without a full
// TraceMetrics value.
func RayFields(rays, hits int) []zap.Field {
	return []zap.Field{
		zap.Int("rays", rays),
		zap.Int("hits", hits),
	}
}

// TimingFields logs a start/end pair with derived duration and
// throughput.
//
// Example:
//
//	start := time.Now()
//	// ... trace ...
//	logger.Info("batch done", logging.TimingFields(start, time.Now(), raysPerSec)...)
func TimingFields(startTime, endTime time.Time, raysPerSecond float64) []zap.Field {
	return []zap.Field{
		zap.Time("start_time", startTime),
		zap.Time("end_time", endTime),
		zap.Duration("duration", endTime.Sub(startTime)),
		zap.Float64("rays_per_second", raysPerSecond),
	}
}
