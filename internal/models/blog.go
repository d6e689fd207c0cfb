package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is a content entity owned by exactly one account. OwnerID never
// changes after creation.
type Blog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name         string     `gorm:"not null" json:"name"`
	Description  string     `json:"description"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	return nil
}

func (Blog) TableName() string {
	return "blogs"
}
