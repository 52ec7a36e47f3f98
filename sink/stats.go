package sink

import "sync/atomic"

// QueuePolicy defines how the remote sink behaves when its in-memory
// queue is full.
type QueuePolicy int

const (
	// DropOldest drops the oldest buffered line to make room. This is
	// the default: logging must never block the application, and the
	// newest lines are usually the most valuable.
	DropOldest QueuePolicy = iota
	// DropNewest drops the incoming line when the queue is full
	DropNewest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p QueuePolicy) String() string {
	switch p {
	case DropOldest:
		return "DropOldest"
	case DropNewest:
		return "DropNewest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// Stats tracks sink statistics with atomic counters
type Stats struct {
	// Enqueued counts lines accepted into the queue
	Enqueued uint64
	// Written counts lines delivered to the destination
	Written uint64
	// Dropped counts lines lost to queue overflow
	Dropped uint64
	// BlockedTotal counts times a caller blocked on a full queue
	BlockedTotal uint64
	// UploadedBatches counts successful remote uploads
	UploadedBatches uint64
	// SpilledBatches counts batches written to the local fallback file
	SpilledBatches uint64
	// FailedAttempts counts individual failed upload attempts
	FailedAttempts uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementEnqueued atomically increments the enqueued counter
func (s *Stats) IncrementEnqueued() {
	atomic.AddUint64(&s.Enqueued, 1)
}

// IncrementWritten atomically adds n to the written counter
func (s *Stats) IncrementWritten(n uint64) {
	atomic.AddUint64(&s.Written, n)
}

// IncrementDropped atomically increments the dropped counter
func (s *Stats) IncrementDropped() {
	atomic.AddUint64(&s.Dropped, 1)
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

// IncrementUploaded atomically increments the uploaded-batch counter
func (s *Stats) IncrementUploaded() {
	atomic.AddUint64(&s.UploadedBatches, 1)
}

// IncrementSpilled atomically increments the spilled-batch counter
func (s *Stats) IncrementSpilled() {
	atomic.AddUint64(&s.SpilledBatches, 1)
}

// IncrementFailedAttempts atomically increments the failed-attempt counter
func (s *Stats) IncrementFailedAttempts() {
	atomic.AddUint64(&s.FailedAttempts, 1)
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Enqueued        uint64
	Written         uint64
	Dropped         uint64
	BlockedTotal    uint64
	UploadedBatches uint64
	SpilledBatches  uint64
	FailedAttempts  uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Enqueued:        atomic.LoadUint64(&s.Enqueued),
		Written:         atomic.LoadUint64(&s.Written),
		Dropped:         atomic.LoadUint64(&s.Dropped),
		BlockedTotal:    atomic.LoadUint64(&s.BlockedTotal),
		UploadedBatches: atomic.LoadUint64(&s.UploadedBatches),
		SpilledBatches:  atomic.LoadUint64(&s.SpilledBatches),
		FailedAttempts:  atomic.LoadUint64(&s.FailedAttempts),
	}
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.Enqueued, 0)
	atomic.StoreUint64(&s.Written, 0)
	atomic.StoreUint64(&s.Dropped, 0)
	atomic.StoreUint64(&s.BlockedTotal, 0)
	atomic.StoreUint64(&s.UploadedBatches, 0)
	atomic.StoreUint64(&s.SpilledBatches, 0)
	atomic.StoreUint64(&s.FailedAttempts, 0)
}
