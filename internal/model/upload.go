package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload records a file stored on disk by an authenticated user.
type Upload struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	OriginalName string    `json:"original_name" gorm:"size:255;not null"`
	StoredName   string    `json:"stored_name" gorm:"size:255;not null;uniqueIndex"`
	ContentType  string    `json:"content_type" gorm:"size:100"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
