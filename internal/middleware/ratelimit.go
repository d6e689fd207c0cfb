package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-io/backend/internal/ratelimit"
)

// ContextKeyRejectedCategory marks a request the governor turned away, so the
// traffic logger can record which category rejected it.
const ContextKeyRejectedCategory = "rejected_category"

// RateLimit guards a route group with one admission category. Governors are
// layered by registering the middleware more than once (the strict global one
// first); Abort on rejection stops the chain, so a rejected request never
// reaches or counts against a later governor.
func RateLimit(governor *ratelimit.Governor) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.ClientIP()

		decision, err := governor.Admit(c.Request.Context(), identity)
		if err != nil {
			log.Printf("rate limit check failed for category %s: %v", governor.Category(), err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Rate limit check failed",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))

		if decision.Allowed {
			c.Next()
			return
		}

		if governor.Category() == ratelimit.CategoryStrictGlobal {
			log.Printf("rate limit exceeded: %s - %s %s", identity, c.Request.Method, c.Request.URL.Path)
		}

		c.Set(ContextKeyRejectedCategory, string(decision.Category))

		retryAfterSecs := int64(decision.RetryAfter.Seconds())
		if decision.RetryAfter > 0 && retryAfterSecs == 0 {
			retryAfterSecs = 1
		}

		c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSecs))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":          decision.Message,
			"category":       decision.Category,
			"retry_after_ms": decision.RetryAfter.Milliseconds(),
		})
		c.Abort()
	}
}
