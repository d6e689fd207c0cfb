package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Category   Category
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Message    string
}

// Governor admits or rejects requests for one admission category using a
// fixed-window count per identity. Rejected requests still consume quota:
// the window only clears by elapsing.
type Governor struct {
	store    CounterStore
	category Category
	limit    int
	window   time.Duration
}

func NewGovernor(store CounterStore, category Category, limit int, window time.Duration) *Governor {
	return &Governor{
		store:    store,
		category: category,
		limit:    limit,
		window:   window,
	}
}

func (g *Governor) Category() Category {
	return g.category
}

func (g *Governor) Limit() int {
	return g.limit
}

func (g *Governor) Window() time.Duration {
	return g.window
}

// Admit counts the request for identity and decides whether it may proceed.
// identity is any stable string for the caller; the middleware passes the
// client network address.
func (g *Governor) Admit(ctx context.Context, identity string) (Decision, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", g.category, identity)

	count, resetIn, err := g.store.Hit(ctx, key, g.window)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Category:  g.category,
		Limit:     g.limit,
		Remaining: g.limit - int(count),
	}

	if decision.Remaining < 0 {
		decision.Remaining = 0
	}

	if count <= int64(g.limit) {
		decision.Allowed = true
		return decision, nil
	}

	decision.RetryAfter = resetIn
	decision.Message = g.category.Message()

	return decision, nil
}
