package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"chyrp/internal/auth"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
	"chyrp/internal/repository"
)

// TokenIssuer issues access tokens for a login.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	TTL() time.Duration
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Login    string
	Email    string
	Password string
	FullName string
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *model.User
}

// AuthService handles registration and login. Tokens are stateless, so there
// is no server-side logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, login, password string) (*LoginResult, error)
}

type authService struct {
	userRepo     repository.UserRepository
	groupRepo    repository.GroupRepository
	tokens       TokenIssuer
	defaultGroup string
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service. New users join
// defaultGroup, or the first group when that does not exist.
func NewAuthService(userRepo repository.UserRepository, groupRepo repository.GroupRepository, tokens TokenIssuer, defaultGroup string, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		groupRepo:    groupRepo,
		tokens:       tokens,
		defaultGroup: defaultGroup,
		logger:       resolveLogger(logger),
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	exists, err := s.userRepo.ExistsByLoginOrEmail(ctx, in.Login, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserAlreadyExists
	}

	group, err := s.registrationGroup(ctx)
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Login:          in.Login,
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hashed,
		GroupID:        group.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Group = *group

	s.logger.Info("user registered",
		"event", "user_registered",
		"module", "service/auth",
		"user_id", user.ID,
		"group", group.Name,
	)
	return user, nil
}

func (s *authService) registrationGroup(ctx context.Context) (*model.Group, error) {
	if s.defaultGroup != "" {
		group, err := s.groupRepo.FindByName(ctx, s.defaultGroup)
		if err == nil {
			return group, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find default group: %w", err)
		}
	}

	group, err := s.groupRepo.First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoGroups
		}
		return nil, fmt.Errorf("find first group: %w", err)
	}
	return group, nil
}

// Login authenticates a user and returns an access token.
func (s *authService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.HashedPassword) {
		s.logger.Warn("login rejected",
			"event", "login_rejected",
			"module", "service/auth",
			"user_id", user.ID,
		)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Login)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   s.tokens.TTL(),
		User:        user,
	}, nil
}
