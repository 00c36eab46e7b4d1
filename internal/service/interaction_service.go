package service

import (
	"context"
	"fmt"

	"chyrp/internal/authz"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
	"chyrp/internal/repository"
)

// InteractionService handles likes, bookmarks and favorite writers for the
// authenticated caller.
type InteractionService interface {
	Like(ctx context.Context, rawHeader string, postID uint) error
	Unlike(ctx context.Context, rawHeader string, postID uint) error
	LikedPosts(ctx context.Context, rawHeader string) ([]model.Post, error)
	Bookmark(ctx context.Context, rawHeader string, postID uint) error
	Unbookmark(ctx context.Context, rawHeader string, postID uint) error
	BookmarkedPosts(ctx context.Context, rawHeader string) ([]model.Post, error)
	Favorite(ctx context.Context, rawHeader string, writerID uint) error
	Unfavorite(ctx context.Context, rawHeader string, writerID uint) error
	Favorites(ctx context.Context, rawHeader string) ([]model.User, error)
}

type interactionService struct {
	repo     repository.InteractionRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	identity authz.IdentityResolver
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(repo repository.InteractionRepository, posts repository.PostRepository, users repository.UserRepository, identity authz.IdentityResolver) InteractionService {
	return &interactionService{repo: repo, posts: posts, users: users, identity: identity}
}

// withPost authenticates the caller, checks the post exists and runs fn.
func (s *interactionService) withPost(ctx context.Context, rawHeader string, postID uint, fn func(userID uint) error) error {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return err
	}
	if _, err := s.posts.ParentID(ctx, postID); err != nil {
		return notFound(err, fmt.Sprintf("post %d", postID))
	}
	return fn(user.ID)
}

func (s *interactionService) Like(ctx context.Context, rawHeader string, postID uint) error {
	return s.withPost(ctx, rawHeader, postID, func(userID uint) error {
		return s.repo.AddLike(ctx, userID, postID)
	})
}

func (s *interactionService) Unlike(ctx context.Context, rawHeader string, postID uint) error {
	return s.withPost(ctx, rawHeader, postID, func(userID uint) error {
		return s.repo.RemoveLike(ctx, userID, postID)
	})
}

func (s *interactionService) LikedPosts(ctx context.Context, rawHeader string) ([]model.Post, error) {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return nil, err
	}
	return s.repo.LikedPosts(ctx, user.ID)
}

func (s *interactionService) Bookmark(ctx context.Context, rawHeader string, postID uint) error {
	return s.withPost(ctx, rawHeader, postID, func(userID uint) error {
		return s.repo.AddBookmark(ctx, userID, postID)
	})
}

func (s *interactionService) Unbookmark(ctx context.Context, rawHeader string, postID uint) error {
	return s.withPost(ctx, rawHeader, postID, func(userID uint) error {
		return s.repo.RemoveBookmark(ctx, userID, postID)
	})
}

func (s *interactionService) BookmarkedPosts(ctx context.Context, rawHeader string) ([]model.Post, error) {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return nil, err
	}
	return s.repo.BookmarkedPosts(ctx, user.ID)
}

// Favorite marks writerID as a favorite of the caller.
func (s *interactionService) Favorite(ctx context.Context, rawHeader string, writerID uint) error {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return err
	}
	if user.ID == writerID {
		return fmt.Errorf("cannot favorite yourself: %w", apperrors.ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, writerID); err != nil {
		return notFound(err, fmt.Sprintf("user %d", writerID))
	}
	return s.repo.AddFavorite(ctx, user.ID, writerID)
}

func (s *interactionService) Unfavorite(ctx context.Context, rawHeader string, writerID uint) error {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return err
	}
	return s.repo.RemoveFavorite(ctx, user.ID, writerID)
}

func (s *interactionService) Favorites(ctx context.Context, rawHeader string) ([]model.User, error) {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return nil, err
	}
	return s.repo.Favorites(ctx, user.ID)
}
