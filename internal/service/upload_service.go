package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"chyrp/internal/authz"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
	"chyrp/internal/repository"
)

// UploadInput describes an incoming file.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// UploadService stores files for authors. Serving them is left to the web
// server in front of the API.
type UploadService interface {
	CanUpload(ctx context.Context, rawHeader string) error
	Store(ctx context.Context, rawHeader string, in UploadInput) (*model.Upload, error)
	List(ctx context.Context, rawHeader string) ([]model.Upload, error)
}

type uploadService struct {
	repo     repository.UploadRepository
	identity authz.IdentityResolver
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadService creates an upload service writing into dir.
func NewUploadService(repo repository.UploadRepository, identity authz.IdentityResolver, dir string, maxBytes int64, logger *slog.Logger) UploadService {
	return &uploadService{
		repo:     repo,
		identity: identity,
		dir:      dir,
		maxBytes: maxBytes,
		logger:   resolveLogger(logger),
	}
}

// CanUpload checks that the caller may upload. Handlers call it before reading
// the request body.
func (s *uploadService) CanUpload(ctx context.Context, rawHeader string) error {
	_, err := authorize(ctx, s.identity, rawHeader, authz.AddPost)
	return err
}

// Store writes the file under a random name. The caller needs add_post.
func (s *uploadService) Store(ctx context.Context, rawHeader string, in UploadInput) (*model.Upload, error) {
	user, err := authorize(ctx, s.identity, rawHeader, authz.AddPost)
	if err != nil {
		return nil, err
	}

	original := filepath.Base(strings.TrimSpace(in.Filename))
	if original == "" || original == "." || original == string(filepath.Separator) {
		return nil, fmt.Errorf("missing file name: %w", apperrors.ErrInvalidInput)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New()
	stored := id.String() + strings.ToLower(filepath.Ext(original))
	path := filepath.Join(s.dir, stored)

	size, err := s.write(path, in.Content)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	upload := &model.Upload{
		ID:           id,
		UserID:       user.ID,
		OriginalName: original,
		StoredName:   stored,
		ContentType:  in.ContentType,
		Size:         size,
	}
	if err := s.repo.Create(ctx, upload); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("record upload: %w", err)
	}

	s.logger.Info("file uploaded",
		"event", "upload_stored",
		"module", "service/upload",
		"upload_id", id.String(),
		"user_id", user.ID,
		"size", size,
	)
	return upload, nil
}

func (s *uploadService) write(path string, content io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(content, s.maxBytes+1))
	closeErr := f.Close()
	if err != nil {
		return 0, fmt.Errorf("write upload: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close upload: %w", closeErr)
	}
	if n > s.maxBytes {
		return 0, apperrors.ErrUploadTooLarge
	}
	return n, nil
}

func (s *uploadService) List(ctx context.Context, rawHeader string) ([]model.Upload, error) {
	user, err := authenticate(ctx, s.identity, rawHeader)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, user.ID)
}
