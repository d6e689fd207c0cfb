package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/storage"
)

type SubscriptionRepository struct {
	db *storage.Postgres
}

func NewSubscriptionRepository(db *storage.Postgres) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Counts how many accounts the given account follows
func (r *SubscriptionRepository) CountFollowing(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ?", accountID).
		Count(&count).Error

	return count, err
}

// Counts how many accounts follow the given account
func (r *SubscriptionRepository) CountFollowers(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("target_id = ?", accountID).
		Count(&count).Error

	return count, err
}
