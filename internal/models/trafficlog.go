package models

import (
	"time"

	"github.com/google/uuid"
)

// TrafficLog is one logged HTTP request. RejectedCategory is set when the
// rate governor turned the request away before it reached a handler.
type TrafficLog struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Timestamp        time.Time  `gorm:"index" json:"timestamp"`
	AccountID        *uuid.UUID `gorm:"index" json:"account_id,omitempty"`
	Method           string     `json:"method"`
	Path             string     `gorm:"index" json:"path"`
	StatusCode       int        `gorm:"index" json:"status_code"`
	ResponseTimeMs   int        `json:"response_time_ms"`
	IPAddress        string     `json:"ip_address"`
	UserAgent        string     `json:"user_agent"`
	RejectedCategory string     `json:"rejected_category,omitempty"`
}

func (TrafficLog) TableName() string {
	return "traffic_logs"
}
