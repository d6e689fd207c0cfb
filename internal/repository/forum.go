package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/storage"
)

type ForumRepository struct {
	db *storage.Postgres
}

func NewForumRepository(db *storage.Postgres) *ForumRepository {
	return &ForumRepository{db: db}
}

// ForumListItem is a forum row plus its comment count.
type ForumListItem struct {
	models.Forum
	CommentCount int64 `json:"comment_count"`
}

// Retrieves forums newest first with their comment counts
func (r *ForumRepository) List(ctx context.Context, limit, offset int) ([]ForumListItem, error) {
	var items []ForumListItem
	err := r.db.DB.WithContext(ctx).
		Model(&models.Forum{}).
		Select("forums.*, (SELECT COUNT(*) FROM forum_comments WHERE forum_comments.forum_id = forums.id) AS comment_count").
		Order("forums.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, err
}

// Retrieves a single forum post
func (r *ForumRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Forum, error) {
	var forum models.Forum
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&forum).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &forum, err
}

// Inserts a new forum post
func (r *ForumRepository) Create(ctx context.Context, forum *models.Forum) error {
	return r.db.DB.WithContext(ctx).Create(forum).Error
}

// Retrieves a forum's comments oldest first
func (r *ForumRepository) ListComments(ctx context.Context, forumID uuid.UUID) ([]models.ForumComment, error) {
	var comments []models.ForumComment
	err := r.db.DB.WithContext(ctx).
		Where("forum_id = ?", forumID).
		Order("created_at ASC").
		Find(&comments).Error

	return comments, err
}

// Inserts a new comment
func (r *ForumRepository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	return r.db.DB.WithContext(ctx).Create(comment).Error
}
