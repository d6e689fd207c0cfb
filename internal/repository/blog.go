package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/storage"
)

type BlogRepository struct {
	db *storage.Postgres
}

func NewBlogRepository(db *storage.Postgres) *BlogRepository {
	return &BlogRepository{db: db}
}

// Retrieves a blog by id regardless of owner or status
func (r *BlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&blog).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &blog, err
}

// Retrieves a blog only when both id and owner match
func (r *BlogRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&blog).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &blog, err
}

// Stamps deleted_at on every active blog of the owner; blogs that are
// already deleted keep their original timestamp
func (r *BlogRepository) SoftDeleteByOwner(ctx context.Context, ownerID uuid.UUID, deletedAt time.Time) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Blog{}).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Update("deleted_at", deletedAt).Error
}

// Clears deleted_at on every blog of the owner
func (r *BlogRepository) RestoreByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Blog{}).
		Where("owner_id = ?", ownerID).
		Update("deleted_at", nil).Error
}

// Stamps deleted_at on a single active blog after an owner check.
// Returns the matched row count so the caller can tell a miss from a hit.
func (r *BlogRepository) SoftDeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, deletedAt time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", id, ownerID).
		Update("deleted_at", deletedAt)

	return result.RowsAffected, result.Error
}

// Clears deleted_at on a single blog after an owner check
func (r *BlogRepository) RestoreByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("deleted_at", nil)

	return result.RowsAffected, result.Error
}

// Retrieves the newest active blogs
func (r *BlogRepository) ListNewest(ctx context.Context, limit int) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.DB.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&blogs).Error

	return blogs, err
}

// Searches active blogs by name or description, case-insensitively
func (r *BlogRepository) Search(ctx context.Context, query string, limit int) ([]models.Blog, error) {
	var blogs []models.Blog
	pattern := "%" + query + "%"
	err := r.db.DB.WithContext(ctx).
		Where("deleted_at IS NULL AND (name ILIKE ? OR description ILIKE ?)", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&blogs).Error

	return blogs, err
}

// Retrieves the owner's deleted blogs, most recently deleted first
func (r *BlogRepository) ListDeletedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.DB.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NOT NULL", ownerID).
		Order("deleted_at DESC").
		Find(&blogs).Error

	return blogs, err
}
