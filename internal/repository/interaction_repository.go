package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chyrp/internal/model"
)

// InteractionRepository persists likes, bookmarks and favorite writers.
// Adds are idempotent; removing a missing row is not an error.
type InteractionRepository interface {
	AddLike(ctx context.Context, userID, postID uint) error
	RemoveLike(ctx context.Context, userID, postID uint) error
	LikedPosts(ctx context.Context, userID uint) ([]model.Post, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)

	AddBookmark(ctx context.Context, userID, postID uint) error
	RemoveBookmark(ctx context.Context, userID, postID uint) error
	BookmarkedPosts(ctx context.Context, userID uint) ([]model.Post, error)

	AddFavorite(ctx context.Context, userID, favoriteUserID uint) error
	RemoveFavorite(ctx context.Context, userID, favoriteUserID uint) error
	Favorites(ctx context.Context, userID uint) ([]model.User, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) insertIgnore(ctx context.Context, row interface{}) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *interactionRepository) AddLike(ctx context.Context, userID, postID uint) error {
	return r.insertIgnore(ctx, &model.PostLike{UserID: userID, PostID: postID})
}

func (r *interactionRepository) RemoveLike(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{}).Error
}

func (r *interactionRepository) LikedPosts(ctx context.Context, userID uint) ([]model.Post, error) {
	return r.postsJoined(ctx, "post_likes", userID)
}

func (r *interactionRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *interactionRepository) AddBookmark(ctx context.Context, userID, postID uint) error {
	return r.insertIgnore(ctx, &model.PostBookmark{UserID: userID, PostID: postID})
}

func (r *interactionRepository) RemoveBookmark(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostBookmark{}).Error
}

func (r *interactionRepository) BookmarkedPosts(ctx context.Context, userID uint) ([]model.Post, error) {
	return r.postsJoined(ctx, "post_bookmarks", userID)
}

func (r *interactionRepository) AddFavorite(ctx context.Context, userID, favoriteUserID uint) error {
	return r.insertIgnore(ctx, &model.FavoriteWriter{UserID: userID, FavoriteUserID: favoriteUserID})
}

func (r *interactionRepository) RemoveFavorite(ctx context.Context, userID, favoriteUserID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Delete(&model.FavoriteWriter{}).Error
}

func (r *interactionRepository) Favorites(ctx context.Context, userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN favorite_writers ON favorite_writers.favorite_user_id = users.id").
		Where("favorite_writers.user_id = ?", userID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// postsJoined lists the posts linked to userID through a user/post join table.
func (r *interactionRepository) postsJoined(ctx context.Context, table string, userID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN "+table+" ON "+table+".post_id = posts.id").
		Where(table+".user_id = ?", userID).
		Order("posts.id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
