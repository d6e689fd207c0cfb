package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a registered user. DeletedAt is a plain nullable timestamp so
// soft-deleted rows stay visible to the restore path (gorm.DeletedAt would
// filter them out of every query).
type Account struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Nickname        *string    `json:"nickname"`
	ProfileImageURL *string    `json:"profile_image_url"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	return nil
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}
