package sink

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/oklog/ulid/v2"

	"github.com/philipp01105/logsink/core"
)

// RemoteSink buffers rendered lines in memory and uploads them in
// batches to an object store. Writes never block the caller beyond
// the configured queue policy; all network I/O happens on a single
// background worker that owns the client, the retry loop, and the
// local fallback file.
type RemoteSink struct {
	cfg      RemoteConfig
	queue    chan []byte
	flushReq chan chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stats    *Stats
	entropy  *ulid.MonotonicEntropy // owned by the worker goroutine
	seq      uint64                 // owned by the worker goroutine
	closeOne sync.Once
}

// RemoteConfig holds configuration for the remote sink
type RemoteConfig struct {
	// Client performs the actual uploads (required)
	Client ObjectStoreClient
	// KeyPrefix is prepended to every object key
	KeyPrefix string
	// BatchSize triggers an upload when this many lines are buffered (default: 100)
	BatchSize int
	// FlushInterval triggers an upload of a partial batch (default: 1s)
	FlushInterval time.Duration
	// QueueSize is the bound of the in-memory queue (default: 10000)
	QueueSize int
	// Policy defines queue-full behavior (default: DropOldest)
	Policy QueuePolicy
	// BlockTimeout is the wait bound for the Block policy (default: 100ms)
	BlockTimeout time.Duration
	// MaxAttempts bounds upload retries per batch (default: 5)
	MaxAttempts int
	// AttemptTimeout bounds each individual upload attempt (default: 5s)
	AttemptTimeout time.Duration
	// DrainTimeout is the grace period for the final flush on Close (default: 5s)
	DrainTimeout time.Duration
	// Compress gzips batch payloads before upload
	Compress bool
	// FallbackPath receives batches that exhausted their retries; when
	// empty, failed batches are dropped after reporting
	FallbackPath string
	// Reporter receives internal failures (optional)
	Reporter *Reporter
}

// NewRemoteSink creates a new remote sink and starts its worker
func NewRemoteSink(cfg RemoteConfig) (*RemoteSink, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("object store client is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 5 * time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	s := &RemoteSink{
		cfg:      cfg,
		queue:    make(chan []byte, cfg.QueueSize),
		flushReq: make(chan chan struct{}),
		done:     make(chan struct{}),
		stats:    NewStats(),
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}

	s.wg.Add(1)
	go s.runLoop()

	return s, nil
}

// Write enqueues one rendered line. The line is copied, so the caller
// may reuse its buffer. Queue overflow is resolved by the configured
// policy; the caller never sees an error for a dropped line, only the
// drop counter moves.
func (s *RemoteSink) Write(_ core.Level, line []byte) error {
	buf := make([]byte, len(line))
	copy(buf, line)

	select {
	case s.queue <- buf:
		s.stats.IncrementEnqueued()
		return nil
	default:
	}

	switch s.cfg.Policy {
	case Block:
		timer := time.NewTimer(s.cfg.BlockTimeout)
		defer timer.Stop()
		select {
		case s.queue <- buf:
			s.stats.IncrementEnqueued()
			return nil
		case <-timer.C:
			s.stats.IncrementBlocked()
			s.stats.IncrementDropped()
			return nil
		case <-s.done:
			s.stats.IncrementDropped()
			return nil
		}

	case DropNewest:
		s.stats.IncrementDropped()
		return nil

	case DropOldest:
		fallthrough
	default:
		// Remove the oldest line, then retry once
		select {
		case <-s.queue:
			s.stats.IncrementDropped()
		default:
		}
		select {
		case s.queue <- buf:
			s.stats.IncrementEnqueued()
		default:
			// Still full, drop this one
			s.stats.IncrementDropped()
		}
		return nil
	}
}

// Flush uploads everything buffered so far and waits for the upload
// to finish, bounded by the drain timeout.
func (s *RemoteSink) Flush() error {
	ack := make(chan struct{})
	select {
	case s.flushReq <- ack:
	case <-s.done:
		return nil
	}

	timer := time.NewTimer(s.cfg.DrainTimeout)
	defer timer.Stop()
	select {
	case <-ack:
		return nil
	case <-timer.C:
		return &SinkError{Sink: "remote", Op: "flush", Kind: Transient, Err: fmt.Errorf("flush timed out after %v", s.cfg.DrainTimeout)}
	}
}

// Close stops the worker after a final flush with a bounded grace
// period; whatever cannot be uploaded in time is spilled to the local
// fallback file rather than lost.
func (s *RemoteSink) Close() error {
	s.closeOne.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

// Stats returns a snapshot of the current statistics
func (s *RemoteSink) Stats() Snapshot {
	return s.stats.GetSnapshot()
}

// runLoop is the background worker: it batches queued lines by count
// or interval, whichever triggers first.
func (s *RemoteSink) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	var batch [][]byte

	send := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		s.deliver(ctx, batch)
		batch = nil
	}

	for {
		select {
		case line := <-s.queue:
			batch = append(batch, line)
			if len(batch) >= s.cfg.BatchSize {
				send(context.Background())
			}

		case <-ticker.C:
			send(context.Background())

		case ack := <-s.flushReq:
			batch = append(batch, s.drainQueue()...)
			send(context.Background())
			close(ack)

		case <-s.done:
			// Final flush under the shutdown grace period
			batch = append(batch, s.drainQueue()...)
			if len(batch) == 0 {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DrainTimeout)
			send(ctx)
			cancel()
			return
		}
	}
}

// drainQueue empties the queue without blocking
func (s *RemoteSink) drainQueue() [][]byte {
	var lines [][]byte
	for {
		select {
		case line := <-s.queue:
			lines = append(lines, line)
		default:
			return lines
		}
	}
}

// deliver uploads one batch with retries; after the attempt budget is
// exhausted (or the context expires) the batch is spilled.
func (s *RemoteSink) deliver(ctx context.Context, batch [][]byte) {
	payload, ext, err := s.encode(batch)
	if err != nil {
		// Encoding failure is not retryable; spill the raw lines
		s.spill(batch, err)
		return
	}

	key := s.nextKey(ext)

	bo := backoff.NewExponentialBackOff()
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		err := s.cfg.Client.Put(attemptCtx, key, payload)
		cancel()

		if err == nil {
			s.stats.IncrementUploaded()
			s.stats.IncrementWritten(uint64(len(batch)))
			return
		}

		lastErr = err
		s.stats.IncrementFailedAttempts()
		if IsPermanent(err) {
			break
		}
		if attempt < s.cfg.MaxAttempts-1 {
			if !sleepCtx(ctx, bo.NextBackOff()) {
				break
			}
		}
	}

	s.spill(batch, lastErr)
}

// encode joins the batch lines into one payload, gzipping when configured
func (s *RemoteSink) encode(batch [][]byte) ([]byte, string, error) {
	size := 0
	for _, line := range batch {
		size += len(line)
	}

	if !s.cfg.Compress {
		payload := make([]byte, 0, size)
		for _, line := range batch {
			payload = append(payload, line...)
		}
		return payload, ".log", nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	for _, line := range batch {
		if _, err := zw.Write(line); err != nil {
			return nil, "", err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ".log.gz", nil
}

// nextKey derives an object key from the prefix, the upload time, the
// batch sequence number, and a monotonic ULID. Keys never collide and
// list chronologically.
func (s *RemoteSink) nextKey(ext string) string {
	now := time.Now().UTC()
	s.seq++
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy)
	return fmt.Sprintf("%s%s-%08d-%s%s", s.cfg.KeyPrefix, now.Format("20060102T150405"), s.seq, id.String(), ext)
}

// spill appends the batch to the local fallback file and reports the
// failure through the low-noise channel.
func (s *RemoteSink) spill(batch [][]byte, cause error) {
	defer func() {
		if s.cfg.Reporter != nil && cause != nil {
			s.cfg.Reporter.Report(cause)
		}
	}()

	if s.cfg.FallbackPath == "" {
		for range batch {
			s.stats.IncrementDropped()
		}
		return
	}

	file, err := os.OpenFile(s.cfg.FallbackPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		cause = fmt.Errorf("upload failed (%v); fallback open failed: %w", cause, err)
		for range batch {
			s.stats.IncrementDropped()
		}
		return
	}
	defer file.Close()

	for _, line := range batch {
		if _, err := file.Write(line); err != nil {
			cause = fmt.Errorf("upload failed (%v); fallback write failed: %w", cause, err)
			return
		}
	}
	s.stats.IncrementSpilled()
	s.stats.IncrementWritten(uint64(len(batch)))
}
