package repository

import (
	"context"
	"time"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/storage"
)

type TrafficLogRepository struct {
	db *storage.Postgres
}

func NewTrafficLogRepository(db *storage.Postgres) *TrafficLogRepository {
	return &TrafficLogRepository{db: db}
}

// Inserts multiple traffic logs (for batch insertion)
func (r *TrafficLogRepository) CreateBatch(ctx context.Context, logs []models.TrafficLog) error {
	if len(logs) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&logs).Error
}

// Counts logs in a time range
func (r *TrafficLogRepository) CountByTimeRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.TrafficLog{}).
		Where("timestamp BETWEEN ? AND ?", from, to).
		Count(&count).Error

	return count, err
}

// Counts logs with a status code in [low, high]
func (r *TrafficLogRepository) CountByStatusCodeRange(ctx context.Context, low, high int, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.TrafficLog{}).
		Where("status_code BETWEEN ? AND ? AND timestamp BETWEEN ? AND ?", low, high, from, to).
		Count(&count).Error

	return count, err
}

// Counts requests turned away by the rate governor
func (r *TrafficLogRepository) CountRejected(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.TrafficLog{}).
		Where("rejected_category <> '' AND timestamp BETWEEN ? AND ?", from, to).
		Count(&count).Error

	return count, err
}

// Calculates average response time over a time range
func (r *TrafficLogRepository) GetAverageResponseTime(ctx context.Context, from, to time.Time) (float64, error) {
	var avg float64
	err := r.db.DB.WithContext(ctx).
		Model(&models.TrafficLog{}).
		Where("timestamp BETWEEN ? AND ?", from, to).
		Select("COALESCE(AVG(response_time_ms), 0)").
		Scan(&avg).Error

	return avg, err
}
