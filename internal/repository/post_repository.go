package repository

import (
	"context"

	"gorm.io/gorm"

	"chyrp/internal/model"
)

// PostFilter narrows a post listing.
type PostFilter struct {
	ContentType model.ContentType
	Offset      int
	Limit       int
}

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) ([]uint, error)
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	ParentID(ctx context.Context, id uint) (*uint, error)
	List(ctx context.Context, filter PostFilter) ([]model.Post, error)
	Children(ctx context.Context, parentID uint) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(post).Error
}

// Update saves all mutable columns of post.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Owner").Save(post).Error
}

// Delete removes a post and detaches its children. It returns the ids of the
// detached children.
func (r *postRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var detached []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("parent_id = ?", id).Pluck("id", &detached).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostBookmark{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}

// FindByID loads a post together with its owner.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Owner").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("clean = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ParentID returns only the parent reference of a post.
func (r *postRepository) ParentID(ctx context.Context, id uint) (*uint, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Select("id", "parent_id").First(&post, id).Error; err != nil {
		return nil, err
	}
	return post.ParentID, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]model.Post, error) {
	query := r.db.WithContext(ctx).Preload("Owner").Order("pinned DESC, created_at DESC, id DESC")
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	var posts []model.Post
	if err := query.Offset(filter.Offset).Limit(filter.Limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Children returns the direct children of a post.
func (r *postRepository) Children(ctx context.Context, parentID uint) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("Owner").Where("parent_id = ?", parentID).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
