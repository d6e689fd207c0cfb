package middleware

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/repository"
)

// Buffered channel for async logging
var trafficChannel chan models.TrafficLog

// Initializes the traffic logger worker
func InitTrafficLogger(repo *repository.TrafficLogRepository, bufferSize int) {
	trafficChannel = make(chan models.TrafficLog, bufferSize)

	// Background worker batches inserts so request latency never pays for
	// the write.
	go func() {
		batch := make([]models.TrafficLog, 0, 100)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		flush := func() {
			if len(batch) == 0 {
				return
			}
			if err := repo.CreateBatch(context.Background(), batch); err != nil {
				log.Printf("failed to insert traffic logs: %v", err)
			}
			batch = make([]models.TrafficLog, 0, 100)
		}

		for {
			select {
			case entry := <-trafficChannel:
				batch = append(batch, entry)
				if len(batch) >= 100 {
					flush()
				}
			case <-ticker.C:
				flush()
			}
		}
	}()
}

// Logs all HTTP requests, including ones rejected by the rate governor
func TrafficLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if trafficChannel == nil {
			return
		}

		duration := time.Since(start)

		var accountID *uuid.UUID
		if id, ok := AccountID(c); ok {
			accountID = &id
		}

		entry := models.TrafficLog{
			Timestamp:        start,
			AccountID:        accountID,
			Method:           c.Request.Method,
			Path:             c.Request.URL.Path,
			StatusCode:       c.Writer.Status(),
			ResponseTimeMs:   int(duration.Milliseconds()),
			IPAddress:        c.ClientIP(),
			UserAgent:        c.Request.UserAgent(),
			RejectedCategory: c.GetString(ContextKeyRejectedCategory),
		}

		// Drop on overflow rather than stall the request path.
		select {
		case trafficChannel <- entry:
		default:
		}
	}
}
