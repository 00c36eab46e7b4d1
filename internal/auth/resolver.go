package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chyrp/internal/model"
)

var (
	// ErrMalformedHeader is returned when the credential is not "Bearer <token>".
	ErrMalformedHeader = errors.New("invalid authorization header format")
	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = errors.New("could not validate credentials")
	// ErrUnknownSubject is returned when a valid token names a user that does not exist.
	ErrUnknownSubject = errors.New("token subject does not exist")
)

// IsIdentityError reports whether err is one of the identity failures that
// surface to clients as unauthenticated.
func IsIdentityError(err error) bool {
	return errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnknownSubject)
}

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads a user, with its group, by login.
type UserFinder interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
}

// Resolver turns a raw Authorization header value into a user.
type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
}

// NewResolver creates an identity resolver.
func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve authenticates the caller described by rawHeader.
func (r *Resolver) Resolve(ctx context.Context, rawHeader string) (*model.User, error) {
	token, err := ParseBearer(rawHeader)
	if err != nil {
		return nil, err
	}

	login, err := r.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := r.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("lookup subject: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}
	return user, nil
}

// ParseBearer extracts the token from a "Bearer <token>" header value. The
// scheme is matched case-insensitively.
func ParseBearer(rawHeader string) (string, error) {
	fields := strings.Fields(rawHeader)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", ErrMalformedHeader
	}
	return fields[1], nil
}
