package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"chyrp/internal/authz"
	"chyrp/internal/cache"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
	"chyrp/internal/repository"
)

// maxTreeDepth bounds ancestor walks when validating a new parent.
const maxTreeDepth = 64

// CreatePostInput holds the fields of a new post.
type CreatePostInput struct {
	ContentType model.ContentType
	Feather     string
	Clean       string
	Status      model.PostStatus
	Pinned      bool
	Title       string
	Body        string
	ParentID    *uint
}

// PostPatch holds optional changes to a post. A ParentID of 0 detaches the
// post from its parent.
type PostPatch struct {
	ContentType *model.ContentType
	Feather     *string
	Clean       *string
	Status      *model.PostStatus
	Pinned      *bool
	Title       *string
	Body        *string
	ParentID    *uint
}

// PostService handles posts and pages. Mutations of existing posts go through
// the ownership gate.
type PostService interface {
	Create(ctx context.Context, rawHeader string, in CreatePostInput) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error)
	Children(ctx context.Context, id uint) ([]model.Post, error)
	Update(ctx context.Context, rawHeader string, id uint, patch PostPatch) (*model.Post, error)
	Delete(ctx context.Context, rawHeader string, id uint) error
}

type postService struct {
	repo     repository.PostRepository
	gate     *authz.Gate
	identity authz.IdentityResolver
	cache    *cache.Client
	cacheTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, gate *authz.Gate, identity authz.IdentityResolver, cache *cache.Client, cacheTTL time.Duration, logger *slog.Logger) PostService {
	return &postService{
		repo:     repo,
		gate:     gate,
		identity: identity,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   resolveLogger(logger),
	}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// Create stores a new post owned by the caller.
func (s *postService) Create(ctx context.Context, rawHeader string, in CreatePostInput) (*model.Post, error) {
	user, err := authorize(ctx, s.identity, rawHeader, authz.AddPost)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlugFree(ctx, in.Clean, 0); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.ensureParent(ctx, 0, *in.ParentID); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		ContentType: in.ContentType,
		Feather:     in.Feather,
		Clean:       in.Clean,
		Status:      in.Status,
		Pinned:      in.Pinned,
		Title:       in.Title,
		Body:        in.Body,
		ParentID:    in.ParentID,
		UserID:      user.ID,
	}
	if post.ContentType == "" {
		post.ContentType = model.ContentTypePost
	}
	if post.Status == "" {
		post.Status = model.PostStatusPublic
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Owner = *user

	s.logger.Info("post created",
		"event", "post_created",
		"module", "service/post",
		"post_id", post.ID,
		"user_id", user.ID,
		"content_type", string(post.ContentType),
	)
	return post, nil
}

// Get returns a post, served from cache when possible.
func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	var cached model.Post
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), post, s.cacheTTL)
	return post, nil
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	filter.Offset, filter.Limit = clampLimit(filter.Offset, filter.Limit)
	return s.repo.List(ctx, filter)
}

// Children returns the direct children of a post.
func (s *postService) Children(ctx context.Context, id uint) ([]model.Post, error) {
	if _, err := s.repo.ParentID(ctx, id); err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}
	return s.repo.Children(ctx, id)
}

// Update applies patch after the gate grants edit access.
func (s *postService) Update(ctx context.Context, rawHeader string, id uint, patch PostPatch) (*model.Post, error) {
	decision, err := s.gate.Authorize(ctx, rawHeader, id, authz.EditPostAction)
	if err != nil {
		return nil, err
	}
	post := decision.Post

	if patch.Clean != nil && *patch.Clean != post.Clean {
		if err := s.ensureSlugFree(ctx, *patch.Clean, post.ID); err != nil {
			return nil, err
		}
		post.Clean = *patch.Clean
	}
	if patch.ParentID != nil {
		if *patch.ParentID == 0 {
			post.ParentID = nil
		} else {
			if err := s.ensureParent(ctx, post.ID, *patch.ParentID); err != nil {
				return nil, err
			}
			parentID := *patch.ParentID
			post.ParentID = &parentID
		}
	}
	if patch.ContentType != nil {
		post.ContentType = *patch.ContentType
	}
	if patch.Feather != nil {
		post.Feather = *patch.Feather
	}
	if patch.Status != nil {
		post.Status = *patch.Status
	}
	if patch.Pinned != nil {
		post.Pinned = *patch.Pinned
	}
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	post.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, fmt.Errorf("update post %d: %w", post.ID, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(post.ID))

	s.logger.Info("post updated",
		"event", "post_updated",
		"module", "service/post",
		"post_id", post.ID,
		"user_id", decision.User.ID,
	)
	return post, nil
}

// Delete removes a post after the gate grants delete access.
func (s *postService) Delete(ctx context.Context, rawHeader string, id uint) error {
	decision, err := s.gate.Authorize(ctx, rawHeader, id, authz.DeletePostAction)
	if err != nil {
		return err
	}

	detached, err := s.repo.Delete(ctx, decision.Post.ID)
	if err != nil {
		return notFound(err, fmt.Sprintf("delete post %d", id))
	}

	// Detached children carry a new parent_id, so their cached copies go too.
	keys := make([]string, 0, len(detached)+1)
	keys = append(keys, s.cacheKey(id))
	for _, childID := range detached {
		keys = append(keys, s.cacheKey(childID))
	}
	_ = s.cache.Delete(ctx, keys...)

	s.logger.Info("post deleted",
		"event", "post_deleted",
		"module", "service/post",
		"post_id", id,
		"user_id", decision.User.ID,
		"detached_children", len(detached),
	)
	return nil
}

// ensureSlugFree fails when a post other than selfID uses slug.
func (s *postService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check slug: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrSlugTaken
	}
	return nil
}

// ensureParent checks that parentID exists and that attaching postID under it
// does not create a cycle. Ancestors are walked by re-querying the store.
// postID is 0 for posts that do not exist yet.
func (s *postService) ensureParent(ctx context.Context, postID, parentID uint) error {
	if postID != 0 && parentID == postID {
		return fmt.Errorf("post %d cannot be its own parent: %w", postID, apperrors.ErrInvalidParent)
	}

	current := parentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		next, err := s.repo.ParentID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent %d does not exist: %w", current, apperrors.ErrInvalidParent)
			}
			return fmt.Errorf("load ancestor %d: %w", current, err)
		}
		if next == nil {
			return nil
		}
		if postID != 0 && *next == postID {
			return fmt.Errorf("parent %d is a descendant of post %d: %w", parentID, postID, apperrors.ErrInvalidParent)
		}
		current = *next
	}
	return fmt.Errorf("post tree deeper than %d: %w", maxTreeDepth, apperrors.ErrInvalidParent)
}
