package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncMemoryCreated is a no-op.
func (n *NoopRecorder) IncMemoryCreated() {}

// IncMemoryUpdated is a no-op.
func (n *NoopRecorder) IncMemoryUpdated() {}

// IncMemoryDeleted is a no-op.
func (n *NoopRecorder) IncMemoryDeleted() {}

// AddMemoriesDeleted is a no-op.
func (n *NoopRecorder) AddMemoriesDeleted(count uint64) {}

// ObserveListDuration is a no-op.
func (n *NoopRecorder) ObserveListDuration(duration time.Duration) {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}
