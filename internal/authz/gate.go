package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"chyrp/internal/auth"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
)

// PostFinder loads a post by id.
type PostFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Post, error)
}

// IdentityResolver authenticates a raw Authorization header value.
type IdentityResolver interface {
	Resolve(ctx context.Context, rawHeader string) (*model.User, error)
}

// Decision is the outcome of a granted gate check.
type Decision struct {
	Post *model.Post
	User *model.User
}

// Gate authorizes mutations of owned posts. It holds no per-request state.
type Gate struct {
	posts    PostFinder
	identity IdentityResolver
	logger   *slog.Logger
}

// NewGate creates an ownership gate.
func NewGate(posts PostFinder, identity IdentityResolver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{posts: posts, identity: identity, logger: logger}
}

// AuthorizeResourceAction loads the post, resolves the caller and checks
// OwnerOrCapability. A missing post is reported as not found before identity
// is considered. The gate never mutates the post.
func (g *Gate) AuthorizeResourceAction(ctx context.Context, rawHeader string, postID uint, general, own Capability) (*Decision, error) {
	post, err := g.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}

	user, err := g.identity.Resolve(ctx, rawHeader)
	if err != nil {
		if !auth.IsIdentityError(err) {
			return nil, err
		}
		g.logger.Debug("gate rejected caller identity",
			"event", "authz_gate_unauthenticated",
			"module", "authz",
			"post_id", postID,
			"reason", err.Error(),
		)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}

	if !OwnerOrCapability(user, post.OwnerID(), general, own) {
		g.logger.Warn("gate denied action",
			"event", "authz_gate_denied",
			"module", "authz",
			"post_id", postID,
			"owner_id", post.OwnerID(),
			"user_id", user.ID,
			"general", string(general),
			"own", string(own),
		)
		return nil, apperrors.ErrForbidden
	}

	g.logger.Debug("gate granted action",
		"event", "authz_gate_granted",
		"module", "authz",
		"post_id", postID,
		"user_id", user.ID,
		"general", string(general),
	)
	return &Decision{Post: post, User: user}, nil
}

// Authorize is AuthorizeResourceAction for a predefined action pair.
func (g *Gate) Authorize(ctx context.Context, rawHeader string, postID uint, action ActionPair) (*Decision, error) {
	return g.AuthorizeResourceAction(ctx, rawHeader, postID, action.General, action.Own)
}
