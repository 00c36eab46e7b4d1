package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"chyrp/internal/authz"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
	"chyrp/internal/repository"
)

// GroupService manages permission groups.
type GroupService interface {
	Create(ctx context.Context, rawHeader, name string, permissions []string) (*model.Group, error)
	List(ctx context.Context, offset, limit int) ([]model.Group, error)
}

type groupService struct {
	repo     repository.GroupRepository
	identity authz.IdentityResolver
	logger   *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(repo repository.GroupRepository, identity authz.IdentityResolver, logger *slog.Logger) GroupService {
	return &groupService{repo: repo, identity: identity, logger: resolveLogger(logger)}
}

// Create stores a new group. The caller needs add_group.
func (s *groupService) Create(ctx context.Context, rawHeader, name string, permissions []string) (*model.Group, error) {
	user, err := authorize(ctx, s.identity, rawHeader, authz.AddGroup)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, apperrors.ErrGroupAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check group existence: %w", err)
	}

	group := &model.Group{Name: name, Permissions: dedupe(permissions)}
	if err := s.repo.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrGroupAlreadyExists
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created",
		"event", "group_created",
		"module", "service/group",
		"group_id", group.ID,
		"user_id", user.ID,
	)
	return group, nil
}

func (s *groupService) List(ctx context.Context, offset, limit int) ([]model.Group, error) {
	offset, limit = clampLimit(offset, limit)
	return s.repo.List(ctx, offset, limit)
}

// dedupe drops repeated capabilities, keeping first occurrence order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
