package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx, WithClock(clock.Now))

	for want := int64(1); want <= 3; want++ {
		count, resetIn, err := s.Hit(ctx, "k", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
		if resetIn <= 0 || resetIn > time.Minute {
			t.Fatalf("resetIn = %v, want within (0, 1m]", resetIn)
		}
	}
}

func TestMemoryStore_ResetInShrinksAsWindowAges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx, WithClock(clock.Now))

	s.Hit(ctx, "k", time.Minute)
	clock.Advance(40 * time.Second)

	_, resetIn, err := s.Hit(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resetIn != 20*time.Second {
		t.Fatalf("resetIn = %v, want 20s", resetIn)
	}
}

func TestMemoryStore_WindowRollsOver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx, WithClock(clock.Now))

	s.Hit(ctx, "k", time.Minute)
	s.Hit(ctx, "k", time.Minute)

	clock.Advance(time.Minute)

	count, _, err := s.Hit(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after rollover = %d, want 1", count)
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx, WithClock(clock.Now))

	s.Hit(ctx, "a", time.Minute)
	s.Hit(ctx, "a", time.Minute)

	count, _, _ := s.Hit(ctx, "b", time.Minute)
	if count != 1 {
		t.Fatalf("key b count = %d, want 1", count)
	}
}

func TestMemoryStore_JanitorEvictsExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx,
		WithClock(clock.Now),
		WithIdleTTL(time.Minute),
		WithCleanupEvery(10*time.Millisecond),
	)

	s.Hit(ctx, "stale", time.Minute)

	// entry's window ends 1m from now; push the clock well past TTL and
	// let the janitor tick
	clock.Advance(10 * time.Minute)
	time.Sleep(50 * time.Millisecond)

	shard := s.shardFor("stale")
	shard.mu.Lock()
	_, exists := shard.entries["stale"]
	shard.mu.Unlock()

	if exists {
		t.Fatal("expired entry should be evicted by the janitor")
	}
}

func TestMemoryStore_JanitorKeepsLiveEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	s := NewMemoryStore(ctx,
		WithClock(clock.Now),
		WithIdleTTL(time.Hour),
		WithCleanupEvery(10*time.Millisecond),
	)

	s.Hit(ctx, "live", time.Minute)
	time.Sleep(50 * time.Millisecond)

	shard := s.shardFor("live")
	shard.mu.Lock()
	_, exists := shard.entries["live"]
	shard.mu.Unlock()

	if !exists {
		t.Fatal("entry inside its TTL should survive cleanup")
	}
}
