package ratelimit

import (
	"context"
	"time"
)

// CounterStore tracks fixed-window request counts per key. Implementations
// must make Hit atomic per key: two concurrent hits may never both observe
// the pre-increment count.
type CounterStore interface {
	// Hit counts one request against the current window for key, creating or
	// resetting the window as needed. It returns the post-increment count and
	// how long until the window resets. The count is not rolled back when the
	// caller decides to reject, so rejected requests keep consuming quota.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}
