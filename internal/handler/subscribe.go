package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/middleware"
	"github.com/inkwell-io/backend/internal/repository"
)

type SubscribeHandler struct {
	subscriptions *repository.SubscriptionRepository
}

func NewSubscribeHandler(subscriptions *repository.SubscriptionRepository) *SubscribeHandler {
	return &SubscribeHandler{subscriptions: subscriptions}
}

// Reports follower/following counts for the caller, or for the account
// given in ?accountId=
func (h *SubscribeHandler) Counts(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	targetID := accountID
	if raw := c.Query("accountId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accountId"})
			return
		}
		targetID = parsed
	}

	ctx := c.Request.Context()

	following, err := h.subscriptions.CountFollowing(ctx, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscription counts"})
		return
	}

	followers, err := h.subscriptions.CountFollowers(ctx, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscription counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"followers": followers,
	})
}
