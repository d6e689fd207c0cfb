package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

// MemoryStore is an in-process CounterStore. Keys are spread over a fixed set
// of locked shards so unrelated identities never contend on one mutex. A
// janitor goroutine evicts entries whose window expired long ago.
type MemoryStore struct {
	shards [shardCount]*memoryShard

	now          func() time.Time
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type memoryShard struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count int64
	reset time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces the time source, used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIdleTTL controls how long an expired entry survives before eviction.
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

// NewMemoryStore creates the store and starts its janitor; cancelling ctx
// stops the janitor.
func NewMemoryStore(ctx context.Context, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:          time.Now,
		idleTTL:      10 * time.Minute,
		cleanupEvery: time.Minute,
	}

	for i := range s.shards {
		s.shards[i] = &memoryShard{entries: make(map[string]*memoryEntry)}
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.janitor(ctx)

	return s
}

func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()
	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[key]
	if !ok || !now.Before(entry.reset) {
		entry = &memoryEntry{count: 0, reset: now.Add(window)}
		shard.entries[key] = entry
	}

	entry.count++

	return entry.count, entry.reset.Sub(now), nil
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))

	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	cutoff := s.now().Add(-s.idleTTL)

	for _, shard := range s.shards {
		shard.mu.Lock()
		for key, entry := range shard.entries {
			if entry.reset.Before(cutoff) {
				delete(shard.entries, key)
			}
		}
		shard.mu.Unlock()
	}
}
