package core

// limiter.go bounds the number of analyses running at once.
//
// Fitting a forest keeps every core busy, so analyses queue on a semaphore.
// A request waits at most maxWait for a slot before failing with
// ErrTooManyAnalyses. WaitForDrain lets shutdown block until running
// analyses finish.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyAnalyses is returned when no analysis slot frees up in time.
var ErrTooManyAnalyses = errors.New("too many concurrent analyses, please try again later")

// DefaultMaxConcurrentAnalyses is the default limit for parallel analyses.
const DefaultMaxConcurrentAnalyses = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// AnalysisLimiter is a counting semaphore with a bounded wait.
type AnalysisLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	waiting  atomic.Int64
	rejected atomic.Int64
	done     atomic.Int64
}

// NewAnalysisLimiter creates a limiter for at most maxConcurrent analyses.
// Non-positive arguments select the defaults.
func NewAnalysisLimiter(maxConcurrent int, maxWait time.Duration) *AnalysisLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentAnalyses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &AnalysisLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, ctx is done, or maxWait elapses.
// On success the caller must call Release exactly once.
func (l *AnalysisLimiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	default:
	}

	l.waiting.Add(1)
	defer l.waiting.Add(-1)

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		l.rejected.Add(1)
		return ErrTooManyAnalyses
	}
}

// TryAcquire takes a slot if one is free and never blocks.
func (l *AnalysisLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *AnalysisLimiter) Release() {
	<-l.slots
	l.done.Add(1)
}

// ActiveCount returns the number of running analyses.
func (l *AnalysisLimiter) ActiveCount() int { return len(l.slots) }

// MaxConcurrent returns the slot count.
func (l *AnalysisLimiter) MaxConcurrent() int { return cap(l.slots) }

// Available returns the number of free slots.
func (l *AnalysisLimiter) Available() int { return cap(l.slots) - len(l.slots) }

// WaitForDrain blocks until no analysis is running or ctx is done.
func (l *AnalysisLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a point-in-time view of the limiter.
type LimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Waiting       int64 `json:"waiting"`
	Completed     int64 `json:"completed"`
	Rejected      int64 `json:"rejected"`
}

// Status returns the current limiter state.
func (l *AnalysisLimiter) Status() LimiterStatus {
	active := len(l.slots)
	return LimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
		Waiting:       l.waiting.Load(),
		Completed:     l.done.Load(),
		Rejected:      l.rejected.Load(),
	}
}
