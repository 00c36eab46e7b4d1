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

// UserService exposes user lookups and the admin-only group reassignment.
type UserService interface {
	Me(ctx context.Context, rawHeader string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ChangeGroup(ctx context.Context, rawHeader string, userID, groupID uint) (*model.User, error)
}

type userService struct {
	users    repository.UserRepository
	groups   repository.GroupRepository
	identity authz.IdentityResolver
	logger   *slog.Logger
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, groups repository.GroupRepository, identity authz.IdentityResolver, logger *slog.Logger) UserService {
	return &userService{users: users, groups: groups, identity: identity, logger: resolveLogger(logger)}
}

func (s *userService) Me(ctx context.Context, rawHeader string) (*model.User, error) {
	return authenticate(ctx, s.identity, rawHeader)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

// ChangeGroup moves a user to another group. The caller needs edit_user.
func (s *userService) ChangeGroup(ctx context.Context, rawHeader string, userID, groupID uint) (*model.User, error) {
	admin, err := authorize(ctx, s.identity, rawHeader, authz.EditUser)
	if err != nil {
		return nil, err
	}

	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %d does not exist: %w", groupID, apperrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("find group: %w", err)
	}

	if err := s.users.UpdateGroup(ctx, userID, groupID); err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", userID))
	}

	s.logger.Info("user group changed",
		"event", "user_group_changed",
		"module", "service/user",
		"user_id", userID,
		"group_id", groupID,
		"admin_id", admin.ID,
	)
	return s.GetUser(ctx, userID)
}
