package model

import "time"

// ContentType distinguishes posts from pages.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypePage ContentType = "page"
)

// PostStatus is the visibility of a post.
type PostStatus string

const (
	PostStatusPublic PostStatus = "public"
	PostStatusDraft  PostStatus = "draft"
)

// Post is a blog post or a page. Pages may nest under a parent.
type Post struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ContentType ContentType `json:"content_type" gorm:"size:20;not null;default:'post';index"`
	Feather     string      `json:"feather,omitempty" gorm:"size:50"`
	Clean       string      `json:"clean" gorm:"uniqueIndex;size:255;not null"` // URL slug
	Status      PostStatus  `json:"status" gorm:"size:20;not null;default:'public';index"`
	Pinned      bool        `json:"pinned" gorm:"default:false"`
	Title       string      `json:"title,omitempty" gorm:"size:255"`
	Body        string      `json:"body,omitempty" gorm:"type:text"`
	ParentID    *uint       `json:"parent_id,omitempty" gorm:"index"`
	UserID      uint        `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relations. Children are looked up by parent id, never held in memory.
	Owner User `json:"owner" gorm:"foreignKey:UserID"`
}

// OwnerID returns the id of the user owning the post.
func (p *Post) OwnerID() uint {
	return p.UserID
}
