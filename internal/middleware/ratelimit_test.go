package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-io/backend/internal/ratelimit"
)

// countingStore wraps a CounterStore and tallies hits per key so tests can
// see which governors a request actually reached.
type countingStore struct {
	inner ratelimit.CounterStore

	mu   sync.Mutex
	hits map[string]int
}

func newCountingStore(inner ratelimit.CounterStore) *countingStore {
	return &countingStore{inner: inner, hits: make(map[string]int)}
}

func (s *countingStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	s.hits[key]++
	s.mu.Unlock()

	return s.inner.Hit(ctx, key, window)
}

func (s *countingStore) hitsForCategory(category ratelimit.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for key, n := range s.hits {
		if strings.HasPrefix(key, "ratelimit:"+string(category)+":") {
			total += n
		}
	}
	return total
}

func newTestRouter(t *testing.T) (*gin.Engine, *countingStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := newCountingStore(ratelimit.NewMemoryStore(ctx))
	return gin.New(), store
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.1:4242"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsWithinQuota(t *testing.T) {
	router, store := newTestRouter(t)

	governor := ratelimit.NewGovernor(store, ratelimit.CategoryGeneral, 5, time.Minute)
	router.GET("/ok", RateLimit(governor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/ok")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Errorf("X-RateLimit-Limit = %q, want 5", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("X-RateLimit-Remaining = %q, want 4", got)
	}
}

func TestRateLimit_Returns429PastQuota(t *testing.T) {
	router, store := newTestRouter(t)

	governor := ratelimit.NewGovernor(store, ratelimit.CategoryWrite, 2, time.Minute)
	router.GET("/w", RateLimit(governor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	doRequest(router, "/w")
	doRequest(router, "/w")

	w := doRequest(router, "/w")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 should carry a Retry-After header")
	}

	var body struct {
		Error        string `json:"error"`
		Category     string `json:"category"`
		RetryAfterMS int64  `json:"retry_after_ms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad 429 body: %v", err)
	}
	if body.Category != "write" {
		t.Errorf("category = %q, want write", body.Category)
	}
	if body.Error == "" {
		t.Error("429 body should carry a message")
	}
	if body.RetryAfterMS <= 0 || body.RetryAfterMS > time.Minute.Milliseconds() {
		t.Errorf("retry_after_ms = %d, want within (0, 60000]", body.RetryAfterMS)
	}
}

func TestRateLimit_RejectedRequestNeverReachesHandler(t *testing.T) {
	router, store := newTestRouter(t)

	var reached int
	governor := ratelimit.NewGovernor(store, ratelimit.CategoryGeneral, 1, time.Minute)
	router.GET("/g", RateLimit(governor), func(c *gin.Context) {
		reached++
		c.Status(http.StatusOK)
	})

	doRequest(router, "/g")
	doRequest(router, "/g")
	doRequest(router, "/g")

	if reached != 1 {
		t.Fatalf("handler reached %d times, want 1", reached)
	}
}

func TestRateLimit_ChainedGovernorsShortCircuit(t *testing.T) {
	router, store := newTestRouter(t)

	outer := ratelimit.NewGovernor(store, ratelimit.CategoryStrictGlobal, 1, time.Minute)
	inner := ratelimit.NewGovernor(store, ratelimit.CategoryGeneral, 100, time.Minute)

	router.Use(RateLimit(outer))
	router.GET("/g", RateLimit(inner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/g")
	if w.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", w.Code)
	}

	w = doRequest(router, "/g")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429 from the outer governor", w.Code)
	}

	// the outer rejection aborted the chain, so the inner governor must
	// have counted only the first request
	if got := store.hitsForCategory(ratelimit.CategoryGeneral); got != 1 {
		t.Fatalf("inner governor hits = %d, want 1", got)
	}
	if got := store.hitsForCategory(ratelimit.CategoryStrictGlobal); got != 2 {
		t.Fatalf("outer governor hits = %d, want 2", got)
	}
}

func TestRateLimit_RejectionMarksCategoryForTrafficLog(t *testing.T) {
	router, store := newTestRouter(t)

	var rejected string
	router.Use(func(c *gin.Context) {
		c.Next()
		if v, ok := c.Get(ContextKeyRejectedCategory); ok {
			rejected = v.(string)
		}
	})

	governor := ratelimit.NewGovernor(store, ratelimit.CategoryUpload, 1, time.Minute)
	router.GET("/u", RateLimit(governor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	doRequest(router, "/u")
	if rejected != "" {
		t.Fatalf("allowed request should not be marked, got %q", rejected)
	}

	doRequest(router, "/u")
	if rejected != "upload" {
		t.Fatalf("rejected category = %q, want upload", rejected)
	}
}

func TestRateLimit_StoreFailureReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	governor := ratelimit.NewGovernor(failingStore{}, ratelimit.CategoryGeneral, 10, time.Minute)
	router.GET("/g", RateLimit(governor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/g")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500 when the counter store fails", w.Code)
	}
}

type failingStore struct{}

func (failingStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return 0, 0, context.DeadlineExceeded
}
