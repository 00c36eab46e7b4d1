package model

import "time"

// User represents a registered author or reader.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Login          string    `json:"login" gorm:"uniqueIndex;size:100;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName       string    `json:"full_name,omitempty" gorm:"size:255"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	GroupID        uint      `json:"group_id" gorm:"not null;index"`
	JoinedAt       time.Time `json:"joined_at" gorm:"autoCreateTime"`

	// Relations
	Group Group `json:"group" gorm:"foreignKey:GroupID;constraint:OnDelete:RESTRICT"`
}

// UserSummary is the public projection of a post owner.
type UserSummary struct {
	ID    uint   `json:"id"`
	Login string `json:"login"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Login: u.Login}
}
