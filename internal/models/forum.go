package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Forum struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID   uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	BlogID      uuid.UUID `gorm:"type:uuid;index" json:"blog_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (f *Forum) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	return nil
}

func (Forum) TableName() string {
	return "forums"
}

type ForumComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ForumID   uuid.UUID `gorm:"type:uuid;index;not null" json:"forum_id"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	BlogID    uuid.UUID `gorm:"type:uuid;index" json:"blog_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *ForumComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	return nil
}

func (ForumComment) TableName() string {
	return "forum_comments"
}
