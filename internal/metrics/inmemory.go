package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	MemoriesCreated     uint64
	MemoriesUpdated     uint64
	MemoriesDeleted     uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
	AuthCacheHits       uint64
	AuthCacheMisses     uint64
	LoginSuccesses      uint64
	LoginFailures       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	memoriesCreated     uint64
	memoriesUpdated     uint64
	memoriesDeleted     uint64
	listDurationCount   uint64
	listDurationTotalNs int64
	authCacheHits       uint64
	authCacheMisses     uint64
	loginSuccesses      uint64
	loginFailures       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		MemoriesCreated:     atomic.LoadUint64(&m.memoriesCreated),
		MemoriesUpdated:     atomic.LoadUint64(&m.memoriesUpdated),
		MemoriesDeleted:     atomic.LoadUint64(&m.memoriesDeleted),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
		AuthCacheHits:       atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:     atomic.LoadUint64(&m.authCacheMisses),
		LoginSuccesses:      atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:       atomic.LoadUint64(&m.loginFailures),
	}
}

// IncMemoryCreated increments the memory created counter.
func (m *InMemoryRecorder) IncMemoryCreated() {
	atomic.AddUint64(&m.memoriesCreated, 1)
}

// IncMemoryUpdated increments the memory updated counter.
func (m *InMemoryRecorder) IncMemoryUpdated() {
	atomic.AddUint64(&m.memoriesUpdated, 1)
}

// IncMemoryDeleted increments the memory deleted counter.
func (m *InMemoryRecorder) IncMemoryDeleted() {
	atomic.AddUint64(&m.memoriesDeleted, 1)
}

// AddMemoriesDeleted adds a bulk delete's record count to the deleted counter.
func (m *InMemoryRecorder) AddMemoriesDeleted(count uint64) {
	atomic.AddUint64(&m.memoriesDeleted, count)
}

// ObserveListDuration records list query duration.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}

// IncAuthCacheHit increments the auth cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments the auth cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}
