package repository

import (
	"context"

	"gorm.io/gorm"

	"chyrp/internal/model"
)

// GroupRepository defines group persistence operations.
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id uint) (*model.Group, error)
	FindByName(ctx context.Context, name string) (*model.Group, error)
	First(ctx context.Context) (*model.Group, error)
	List(ctx context.Context, offset, limit int) ([]model.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// First returns the group with the lowest id.
func (r *groupRepository) First(ctx context.Context) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Order("id").First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context, offset, limit int) ([]model.Group, error) {
	var groups []model.Group
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
