package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chyrp/internal/model"
)

// UploadRepository defines upload metadata persistence operations.
type UploadRepository interface {
	Create(ctx context.Context, upload *model.Upload) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Upload, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Upload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository creates a new upload repository.
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// Create creates a new upload record.
func (r *uploadRepository) Create(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

// FindByID finds an upload by ID.
func (r *uploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Upload, error) {
	var upload model.Upload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// ListByUser lists uploads owned by a user, newest first.
func (r *uploadRepository) ListByUser(ctx context.Context, userID uint) ([]model.Upload, error) {
	var uploads []model.Upload
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}
