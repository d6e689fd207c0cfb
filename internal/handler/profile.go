package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/lifecycle"
	"github.com/inkwell-io/backend/internal/middleware"
	"github.com/inkwell-io/backend/internal/repository"
	"github.com/inkwell-io/backend/internal/service"
)

type ProfileHandler struct {
	lifecycle *lifecycle.Manager
	profiles  *service.ProfileService
	blogs     *repository.BlogRepository
}

func NewProfileHandler(manager *lifecycle.Manager, profiles *service.ProfileService, blogs *repository.BlogRepository) *ProfileHandler {
	return &ProfileHandler{
		lifecycle: manager,
		profiles:  profiles,
		blogs:     blogs,
	}
}

// Copies nickname and profile image from the session token onto the account
func (h *ProfileHandler) Sync(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var nickname, picture *string
	if raw, exists := c.Get(middleware.ContextKeyClaims); exists {
		if claims, ok := raw.(jwt.MapClaims); ok {
			nickname = claimString(claims, "nickname", "name")
			picture = claimString(claims, "picture", "avatar_url")
		}
	}

	ctx := c.Request.Context()
	account, err := h.profiles.Sync(ctx, accountID, nickname, picture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync profile"})
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// Soft-deletes the account and cascades to its blogs
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.lifecycle.DeleteAccount(ctx, accountID, accountID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Account deleted successfully (recoverable for 30 days)",
		"deleted_at": result.DeletedAt,
	})
}

// Reports whether the account is soft-deleted
func (h *ProfileHandler) Status(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	status, err := h.lifecycle.AccountStatus(ctx, accountID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isDeleted": status.IsDeleted,
		"deletedAt": status.DeletedAt,
	})
}

// Restores the account; blog restoration is best-effort and reported as a
// warning when it does not finish
func (h *ProfileHandler) RestoreAccount(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.lifecycle.RestoreAccount(ctx, accountID, accountID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"message": "Account restored successfully",
	}
	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}

	c.JSON(http.StatusOK, response)
}

// Soft-deletes a single blog after an ownership check
func (h *ProfileHandler) DeleteBlog(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	blogID, err := uuid.Parse(c.Param("blogId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.lifecycle.DeleteBlog(ctx, blogID, accountID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Blog deleted successfully",
		"deleted_at": result.DeletedAt,
	})
}

// Clears a single blog's deletion mark after an ownership check
func (h *ProfileHandler) RestoreBlog(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	blogID, err := uuid.Parse(c.Param("blogId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.lifecycle.RestoreBlog(ctx, blogID, accountID); err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Blog restored successfully",
	})
}

// Lists the caller's deleted blogs, most recently deleted first
func (h *ProfileHandler) DeletedBlogs(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	blogs, err := h.blogs.ListDeletedByOwner(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deleted blogs"})
		return
	}

	c.JSON(http.StatusOK, blogs)
}

func claimString(claims jwt.MapClaims, keys ...string) *string {
	for _, key := range keys {
		if value, ok := claims[key].(string); ok && value != "" {
			return &value
		}
	}

	return nil
}
