package model

import "gorm.io/datatypes"

// Group is a named bundle of capabilities. Every user belongs to exactly one.
type Group struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`

	Users []User `json:"-" gorm:"foreignKey:GroupID"`
}
