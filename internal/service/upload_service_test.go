package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
)

func newUploadServiceForTest(t *testing.T, repo *MockUploadRepository, maxBytes int64) (UploadService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	identity := new(MockIdentityResolver)
	identity.On("Resolve", mock.Anything, "Bearer alice").Return(alice, nil)
	identity.On("Resolve", mock.Anything, "Bearer reader").Return(reader, nil)
	return NewUploadService(repo, identity, dir, maxBytes, nil), dir
}

func TestUploadService_Store(t *testing.T) {
	repo := new(MockUploadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Upload")).Return(nil)
	svc, dir := newUploadServiceForTest(t, repo, 1024)

	upload, err := svc.Store(context.Background(), "Bearer alice", UploadInput{
		Filename:    "../../etc/Photo.PNG",
		ContentType: "image/png",
		Content:     bytes.NewReader([]byte("png-bytes")),
	})
	require.NoError(t, err)

	assert.Equal(t, "Photo.PNG", upload.OriginalName)
	assert.Equal(t, alice.ID, upload.UserID)
	assert.Equal(t, int64(9), upload.Size)
	assert.True(t, strings.HasSuffix(upload.StoredName, ".png"))
	assert.Equal(t, upload.ID.String()+".png", upload.StoredName)

	data, err := os.ReadFile(filepath.Join(dir, upload.StoredName))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	repo.AssertExpectations(t)
}

func TestUploadService_StoreRejections(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		input         UploadInput
		expectedError error
	}{
		{
			name:          "caller without add_post",
			header:        "Bearer reader",
			input:         UploadInput{Filename: "a.txt", Content: strings.NewReader("x")},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "too large",
			header:        "Bearer alice",
			input:         UploadInput{Filename: "big.bin", Content: strings.NewReader(strings.Repeat("a", 17))},
			expectedError: apperrors.ErrUploadTooLarge,
		},
		{
			name:          "missing name",
			header:        "Bearer alice",
			input:         UploadInput{Filename: "  ", Content: strings.NewReader("x")},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUploadRepository)
			svc, dir := newUploadServiceForTest(t, repo, 16)

			upload, err := svc.Store(context.Background(), tt.header, tt.input)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, upload)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries)
		})
	}
}

func TestUploadService_List(t *testing.T) {
	repo := new(MockUploadRepository)
	repo.On("ListByUser", mock.Anything, alice.ID).Return([]model.Upload{{OriginalName: "a.txt"}}, nil)
	svc, _ := newUploadServiceForTest(t, repo, 16)

	uploads, err := svc.List(context.Background(), "Bearer alice")
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestUploadService_StoreInterruptedWriteLeavesNothing(t *testing.T) {
	repo := new(MockUploadRepository)
	svc, dir := newUploadServiceForTest(t, repo, 1024)

	upload, err := svc.Store(context.Background(), "Bearer alice", UploadInput{
		Filename: "notes.txt",
		Content:  &failingReader{data: []byte("partial")},
	})

	assert.Error(t, err)
	assert.Nil(t, upload)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadService_CanUpload(t *testing.T) {
	svc, _ := newUploadServiceForTest(t, new(MockUploadRepository), 16)

	assert.NoError(t, svc.CanUpload(context.Background(), "Bearer alice"))
	assert.ErrorIs(t, svc.CanUpload(context.Background(), "Bearer reader"), apperrors.ErrForbidden)
}
