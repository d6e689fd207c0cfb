package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/middleware"
	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/repository"
)

type ForumHandler struct {
	forums   *repository.ForumRepository
	accounts *repository.AccountRepository
}

func NewForumHandler(forums *repository.ForumRepository, accounts *repository.AccountRepository) *ForumHandler {
	return &ForumHandler{forums: forums, accounts: accounts}
}

// Lists forum posts newest first with comment counts
func (h *ForumHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	ctx := c.Request.Context()
	forums, err := h.forums.List(ctx, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch forums"})
		return
	}

	c.JSON(http.StatusOK, forums)
}

// Retrieves one forum post
func (h *ForumHandler) Get(c *gin.Context) {
	forumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Forum not found"})
		return
	}

	ctx := c.Request.Context()
	forum, err := h.forums.FindByID(ctx, forumID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch forum detail"})
		return
	}
	if forum == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Forum not found"})
		return
	}

	c.JSON(http.StatusOK, forum)
}

// Creates a forum post for the authenticated account
func (h *ForumHandler) Create(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		BlogID      uuid.UUID `json:"blog_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	forum := &models.Forum{
		AccountID:   accountID,
		BlogID:      req.BlogID,
		Title:       req.Title,
		Description: req.Description,
	}

	ctx := c.Request.Context()
	if err := h.forums.Create(ctx, forum); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create forum"})
		return
	}

	c.JSON(http.StatusCreated, forum)
}

// Lists a forum's comments oldest first, with each author's public profile
func (h *ForumHandler) ListComments(c *gin.Context) {
	forumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Forum not found"})
		return
	}

	ctx := c.Request.Context()
	comments, err := h.forums.ListComments(ctx, forumID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	// batch-load the authors instead of one lookup per comment
	authorIDs := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool)
	for _, comment := range comments {
		if !seen[comment.AccountID] {
			seen[comment.AccountID] = true
			authorIDs = append(authorIDs, comment.AccountID)
		}
	}

	authors := make(map[uuid.UUID]gin.H, len(authorIDs))
	if len(authorIDs) > 0 {
		accounts, err := h.accounts.FindByIDs(ctx, authorIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		for _, account := range accounts {
			authors[account.ID] = gin.H{
				"id":                account.ID,
				"nickname":          account.Nickname,
				"profile_image_url": account.ProfileImageURL,
			}
		}
	}

	result := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		result = append(result, gin.H{
			"id":         comment.ID,
			"forum_id":   comment.ForumID,
			"blog_id":    comment.BlogID,
			"content":    comment.Content,
			"created_at": comment.CreatedAt,
			"author":     authors[comment.AccountID],
		})
	}

	c.JSON(http.StatusOK, result)
}

// Creates a comment for the authenticated account
func (h *ForumHandler) CreateComment(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ForumID uuid.UUID `json:"forum_id" binding:"required"`
		BlogID  uuid.UUID `json:"blog_id"`
		Content string    `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := &models.ForumComment{
		ForumID:   req.ForumID,
		AccountID: accountID,
		BlogID:    req.BlogID,
		Content:   req.Content,
	}

	ctx := c.Request.Context()
	if err := h.forums.CreateComment(ctx, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}
