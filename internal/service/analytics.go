package service

import (
	"context"
	"time"

	"github.com/inkwell-io/backend/internal/repository"
)

type AnalyticsService struct {
	repository *repository.TrafficLogRepository
}

func NewAnalyticsService(repo *repository.TrafficLogRepository) *AnalyticsService {
	return &AnalyticsService{repository: repo}
}

// Holds traffic summary data
type TrafficSummary struct {
	TotalRequests   int64   `json:"total_requests"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
	ClientErrors    int64   `json:"client_errors"`
	ServerErrors    int64   `json:"server_errors"`
	RateRejected    int64   `json:"rate_rejected"`
}

// Retrieves the traffic summary for a time range
func (s *AnalyticsService) GetSummary(ctx context.Context, from, to time.Time) (*TrafficSummary, error) {
	summary := &TrafficSummary{}

	total, err := s.repository.CountByTimeRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary.TotalRequests = total

	if total == 0 {
		return summary, nil
	}

	avg, err := s.repository.GetAverageResponseTime(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary.AvgResponseTime = avg

	clientErrors, err := s.repository.CountByStatusCodeRange(ctx, 400, 499, from, to)
	if err != nil {
		return nil, err
	}
	summary.ClientErrors = clientErrors

	serverErrors, err := s.repository.CountByStatusCodeRange(ctx, 500, 599, from, to)
	if err != nil {
		return nil, err
	}
	summary.ServerErrors = serverErrors

	rejected, err := s.repository.CountRejected(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary.RateRejected = rejected

	return summary, nil
}
