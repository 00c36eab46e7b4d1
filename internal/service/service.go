package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"chyrp/internal/auth"
	"chyrp/internal/authz"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// authenticate resolves the caller, folding identity failures into
// ErrUnauthenticated while keeping the underlying reason in the chain.
func authenticate(ctx context.Context, identity authz.IdentityResolver, rawHeader string) (*model.User, error) {
	user, err := identity.Resolve(ctx, rawHeader)
	if err != nil {
		if auth.IsIdentityError(err) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
		}
		return nil, err
	}
	return user, nil
}

// authorize authenticates the caller and checks every listed capability.
func authorize(ctx context.Context, identity authz.IdentityResolver, rawHeader string, caps ...authz.Capability) (*model.User, error) {
	user, err := authenticate(ctx, identity, rawHeader)
	if err != nil {
		return nil, err
	}
	if !authz.HasAll(user, caps...) {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

// notFound maps gorm's missing-record error to ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func clampLimit(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return offset, limit
}
