package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock lets tests move the window boundary by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGovernor(t *testing.T, category Category, limit int, window time.Duration) (*Governor, *fakeClock) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := newFakeClock()
	store := NewMemoryStore(ctx, WithClock(clock.Now))

	return NewGovernor(store, category, limit, window), clock
}

func TestAdmit_AllowsUpToLimit(t *testing.T) {
	g, _ := newTestGovernor(t, CategoryGeneral, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := g.Admit(ctx, "203.0.113.1")
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 3 - (i + 1); d.Remaining != want {
			t.Fatalf("request %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d, err := g.Admit(ctx, "203.0.113.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("request 4 should be rejected")
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("rejection should carry a positive RetryAfter, got %v", d.RetryAfter)
	}
	if d.Message == "" {
		t.Fatal("rejection should carry a message")
	}
}

func TestAdmit_RejectionsConsumeQuota(t *testing.T) {
	g, clock := newTestGovernor(t, CategoryGeneral, 2, time.Minute)
	ctx := context.Background()

	// exhaust the window, then keep hammering
	for i := 0; i < 10; i++ {
		g.Admit(ctx, "203.0.113.1")
	}

	// rejected calls counted too, so just short of the boundary the
	// identity must still be rejected
	clock.Advance(59 * time.Second)

	d, err := g.Admit(ctx, "203.0.113.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("should still be rejected inside the original window")
	}
}

func TestAdmit_WindowReset(t *testing.T) {
	g, clock := newTestGovernor(t, CategoryGeneral, 1, time.Minute)
	ctx := context.Background()

	g.Admit(ctx, "203.0.113.1")

	d, _ := g.Admit(ctx, "203.0.113.1")
	if d.Allowed {
		t.Fatal("second request in window should be rejected")
	}

	clock.Advance(time.Minute)

	d, err := g.Admit(ctx, "203.0.113.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatal("request after window elapsed should be allowed")
	}
	if d.Remaining != 0 {
		t.Fatalf("fresh window remaining = %d, want 0", d.Remaining)
	}
}

func TestAdmit_SeparateIdentities(t *testing.T) {
	g, _ := newTestGovernor(t, CategoryGeneral, 1, time.Minute)
	ctx := context.Background()

	g.Admit(ctx, "203.0.113.1")

	d, _ := g.Admit(ctx, "203.0.113.1")
	if d.Allowed {
		t.Fatal("first identity should be exhausted")
	}

	d, _ = g.Admit(ctx, "203.0.113.2")
	if !d.Allowed {
		t.Fatal("second identity should have its own window")
	}
}

func TestAdmit_SeparateCategories(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	store := NewMemoryStore(ctx, WithClock(clock.Now))

	general := NewGovernor(store, CategoryGeneral, 1, time.Minute)
	write := NewGovernor(store, CategoryWrite, 1, time.Minute)

	general.Admit(ctx, "203.0.113.1")

	d, _ := general.Admit(ctx, "203.0.113.1")
	if d.Allowed {
		t.Fatal("general category should be exhausted")
	}

	// same identity, different category: independent quota
	d, _ = write.Admit(ctx, "203.0.113.1")
	if !d.Allowed {
		t.Fatal("write category should be untouched by general traffic")
	}
}

func TestAdmit_RetryAfterBoundedByWindow(t *testing.T) {
	g, _ := newTestGovernor(t, CategoryStrictGlobal, 30, time.Second)
	ctx := context.Background()

	var rejection Decision
	for i := 0; i < 31; i++ {
		d, err := g.Admit(ctx, "203.0.113.1")
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
		rejection = d
	}

	if rejection.Allowed {
		t.Fatal("request 31 of a 30/1s quota should be rejected")
	}
	if rejection.RetryAfter <= 0 || rejection.RetryAfter > time.Second {
		t.Fatalf("RetryAfter = %v, want within (0, 1s]", rejection.RetryAfter)
	}
}

func TestAdmit_ConcurrentNeverOverAdmits(t *testing.T) {
	g, _ := newTestGovernor(t, CategoryGeneral, 50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var allowed atomic.Int32

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := g.Admit(ctx, "203.0.113.1")
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}

	wg.Wait()

	if got := allowed.Load(); got != 50 {
		t.Fatalf("allowed = %d, want exactly 50", got)
	}
}

type erroringStore struct{}

func (erroringStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("backend unavailable")
}

func TestAdmit_StoreErrorPropagates(t *testing.T) {
	g := NewGovernor(erroringStore{}, CategoryGeneral, 10, time.Minute)

	_, err := g.Admit(context.Background(), "203.0.113.1")
	if err == nil {
		t.Fatal("store failure should surface as an error, not a decision")
	}
}
