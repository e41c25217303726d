package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts hits per key inside a window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// Memory is an in-process sliding-window limiter.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	cleanup *time.Ticker
	done    chan struct{}
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

var _ Limiter = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		cleanup: time.NewTicker(5 * time.Minute),
		done:    make(chan struct{}),
	}
	go m.cleanupOldBuckets()
	return m
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if key == "" || limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, exists := m.buckets[key]
	if !exists {
		b = &bucket{}
		m.buckets[key] = b
	}

	cutoff := now.Add(-window)
	kept := b.requests[:0]
	for _, t := range b.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.requests = kept
	b.lastSeen = now

	resetAt := now.Add(window)
	if len(b.requests) > 0 {
		resetAt = b.requests[0].Add(window)
	}
	if len(b.requests) >= limit {
		return Decision{Allowed: false, Limit: limit, Remaining: 0, ResetAt: resetAt}, nil
	}

	b.requests = append(b.requests, now)
	return Decision{Allowed: true, Limit: limit, Remaining: limit - len(b.requests), ResetAt: resetAt}, nil
}

// Reset forgets every hit recorded for key.
func (m *Memory) Reset(key string) {
	m.mu.Lock()
	delete(m.buckets, key)
	m.mu.Unlock()
}

func (m *Memory) cleanupOldBuckets() {
	for {
		select {
		case <-m.done:
			return
		case <-m.cleanup.C:
			m.mu.Lock()
			staleThreshold := m.now().Add(-15 * time.Minute)
			for key, b := range m.buckets {
				if b.lastSeen.Before(staleThreshold) {
					delete(m.buckets, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Memory) Stop() {
	m.cleanup.Stop()
	close(m.done)
}
