package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription records that SubscriberID follows TargetID.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;index;not null" json:"subscriber_id"`
	TargetID     uuid.UUID `gorm:"type:uuid;index;not null" json:"target_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
