package model

import "time"

// PostLike records that a user liked a post.
type PostLike struct {
	UserID    uint `gorm:"primaryKey;column:user_id"`
	PostID    uint `gorm:"primaryKey;column:post_id;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralized table naming.
func (PostLike) TableName() string {
	return "post_likes"
}

// PostBookmark records that a user bookmarked a post.
type PostBookmark struct {
	UserID    uint `gorm:"primaryKey;column:user_id"`
	PostID    uint `gorm:"primaryKey;column:post_id;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralized table naming.
func (PostBookmark) TableName() string {
	return "post_bookmarks"
}

// FavoriteWriter records that UserID follows FavoriteUserID. The relation is
// asymmetric.
type FavoriteWriter struct {
	UserID         uint `gorm:"primaryKey;column:user_id"`
	FavoriteUserID uint `gorm:"primaryKey;column:favorite_user_id;index"`
	CreatedAt      time.Time

	User         User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FavoriteUser User `gorm:"foreignKey:FavoriteUserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralized table naming.
func (FavoriteWriter) TableName() string {
	return "favorite_writers"
}
