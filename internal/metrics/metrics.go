// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Memory management metrics
	IncMemoryCreated()
	IncMemoryUpdated()
	IncMemoryDeleted()
	AddMemoriesDeleted(count uint64)
	ObserveListDuration(duration time.Duration)

	// Auth metrics
	IncAuthCacheHit()
	IncAuthCacheMiss()
	IncLoginSuccess()
	IncLoginFailure()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
