package links

// limiter.go caps the number of file transfers in flight.
//
// Links of a run are worked on by a pool of workers, but only a transfer
// (a download, or a download plus upload) holds a slot. Ledger hits and
// files already on disk pass without one. The CLI builds one Limiter per
// process and hands it to every run, so the process never holds more than
// MaxConcurrent files in memory. When every slot is taken, a transfer waits
// up to maxWait before failing with ErrTooManyTransfers.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyTransfers is returned when no slot frees up within the wait limit.
var ErrTooManyTransfers = errors.New("too many concurrent transfers")

const (
	// DefaultMaxConcurrent is the slot count used for non-positive limits.
	DefaultMaxConcurrent = 4

	// DefaultMaxWait is the wait limit used for non-positive durations.
	DefaultMaxWait = 2 * time.Minute
)

// Limiter is a counting semaphore with a bounded wait.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
	total   atomic.Int64
}

// NewLimiter creates a limiter allowing maxConcurrent transfers at once.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait.
// The caller must call Release once the transfer is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		l.total.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyTransfers
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// LimiterStatus is a snapshot of limiter usage.
type LimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Total         int64 `json:"total"`
}

// Status returns the current usage for logging and health output.
func (l *Limiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
		Total:         l.total.Load(),
	}
}
