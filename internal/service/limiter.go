package service

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency caps outstanding transcript API calls.
const DefaultConcurrency = 5

// Limiter bounds how many remote calls are in flight at once. A slot is
// held only for the duration of fn, never while a caller sleeps between polls.
type Limiter struct {
	sem      *semaphore.Weighted
	size     int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

func NewLimiter(n int) *Limiter {
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(n)),
		size: int64(n),
	}
}

// Do runs fn once a slot is free. It returns ctx.Err() if the context ends
// while waiting.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)

	cur := l.inFlight.Add(1)
	defer l.inFlight.Add(-1)
	for {
		p := l.peak.Load()
		if cur <= p || l.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	return fn(ctx)
}

func (l *Limiter) InFlight() int { return int(l.inFlight.Load()) }

// Peak is the highest number of concurrent calls observed.
func (l *Limiter) Peak() int { return int(l.peak.Load()) }

func (l *Limiter) Size() int { return int(l.size) }
