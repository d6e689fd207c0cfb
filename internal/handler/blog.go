package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/repository"
	"github.com/inkwell-io/backend/internal/service"
)

type BlogHandler struct {
	blogs    *repository.BlogRepository
	accounts *repository.AccountRepository
	profiles *service.ProfileService
}

func NewBlogHandler(blogs *repository.BlogRepository, accounts *repository.AccountRepository, profiles *service.ProfileService) *BlogHandler {
	return &BlogHandler{
		blogs:    blogs,
		accounts: accounts,
		profiles: profiles,
	}
}

// Lists the newest active blogs with their owners' profile images
func (h *BlogHandler) ListNew(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil || limit <= 0 || limit > 50 {
		limit = 3
	}

	ctx := c.Request.Context()
	blogs, err := h.blogs.ListNewest(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new blogs"})
		return
	}

	result := make([]gin.H, 0, len(blogs))
	for _, blog := range blogs {
		imageURL, err := h.profiles.ResolveProfileImage(ctx, blog.OwnerID)
		if err != nil {
			imageURL = ""
		}

		result = append(result, gin.H{
			"id":                blog.ID,
			"name":              blog.Name,
			"description":       blog.Description,
			"thumbnail_url":     blog.ThumbnailURL,
			"profile_image_url": imageURL,
			"created_at":        blog.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

// Searches active blogs by name or description
func (h *BlogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 50 {
		limit = 20
	}

	ctx := c.Request.Context()
	blogs, err := h.blogs.Search(ctx, query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search blogs"})
		return
	}

	c.JSON(http.StatusOK, blogs)
}

// Retrieves one blog with its owner's public profile
func (h *BlogHandler) Get(c *gin.Context) {
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	ctx := c.Request.Context()
	blog, err := h.blogs.FindByID(ctx, blogID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get blog"})
		return
	}
	if blog == nil || blog.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	owner, err := h.accounts.FindByID(ctx, blog.OwnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get blog"})
		return
	}

	imageURL, err := h.profiles.ResolveProfileImage(ctx, blog.OwnerID)
	if err != nil {
		imageURL = ""
	}

	profile := gin.H{
		"id":                blog.OwnerID,
		"nickname":          nil,
		"profile_image_url": imageURL,
	}
	if owner != nil {
		profile["nickname"] = owner.Nickname
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            blog.ID,
		"owner_id":      blog.OwnerID,
		"name":          blog.Name,
		"description":   blog.Description,
		"thumbnail_url": blog.ThumbnailURL,
		"created_at":    blog.CreatedAt,
		"profile":       profile,
	})
}
