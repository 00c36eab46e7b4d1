package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"chyrp/internal/auth"
	"chyrp/internal/authz"
	apperrors "chyrp/internal/errors"
	"chyrp/internal/model"
)

var (
	memberGroup = model.Group{ID: 2, Name: "Member", Permissions: []string{"add_post", "edit_own_post", "delete_own_post"}}
	adminGroup  = model.Group{ID: 1, Name: "Admin", Permissions: []string{"edit_post", "delete_post"}}
	readerGroup = model.Group{ID: 3, Name: "Reader"}

	alice  = &model.User{ID: 10, Login: "alice", GroupID: 2, Group: memberGroup}
	bob    = &model.User{ID: 11, Login: "bob", GroupID: 2, Group: memberGroup}
	admin  = &model.User{ID: 1, Login: "admin", GroupID: 1, Group: adminGroup}
	reader = &model.User{ID: 12, Login: "reader", GroupID: 3, Group: readerGroup}
)

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func newPostServiceForTest(posts *MockPostRepository) PostService {
	identity := new(MockIdentityResolver)
	for _, u := range []*model.User{alice, bob, admin, reader} {
		identity.On("Resolve", mock.Anything, "Bearer "+u.Login).Return(u, nil)
	}
	identity.On("Resolve", mock.Anything, "Basic xyz").Return(nil, auth.ErrMalformedHeader)

	gate := authz.NewGate(posts, identity, nil)
	return NewPostService(posts, gate, identity, nil, time.Minute, nil)
}

func TestPostService_Create(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		input         CreatePostInput
		setupMock     func(*MockPostRepository)
		expectedError error
	}{
		{
			name:   "member creates post",
			header: "Bearer alice",
			input:  CreatePostInput{Clean: "hello", Title: "Hello"},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "hello").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
		},
		{
			name:   "page under existing parent",
			header: "Bearer alice",
			input:  CreatePostInput{Clean: "team", ContentType: model.ContentTypePage, ParentID: uintPtr(5)},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "team").Return(nil, gorm.ErrRecordNotFound)
				m.On("ParentID", mock.Anything, uint(5)).Return(nil, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
		},
		{
			name:          "reader lacks add_post",
			header:        "Bearer reader",
			input:         CreatePostInput{Clean: "hello"},
			setupMock:     func(*MockPostRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "unauthenticated",
			header:        "Basic xyz",
			input:         CreatePostInput{Clean: "hello"},
			setupMock:     func(*MockPostRepository) {},
			expectedError: apperrors.ErrUnauthenticated,
		},
		{
			name:   "slug taken",
			header: "Bearer alice",
			input:  CreatePostInput{Clean: "hello"},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "hello").Return(&model.Post{ID: 3, Clean: "hello"}, nil)
			},
			expectedError: apperrors.ErrSlugTaken,
		},
		{
			name:   "missing parent",
			header: "Bearer alice",
			input:  CreatePostInput{Clean: "orphan", ParentID: uintPtr(99)},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "orphan").Return(nil, gorm.ErrRecordNotFound)
				m.On("ParentID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidParent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			tt.setupMock(posts)
			svc := newPostServiceForTest(posts)

			post, err := svc.Create(context.Background(), tt.header, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				assert.Equal(t, alice.ID, post.UserID)
				assert.Equal(t, tt.input.Clean, post.Clean)
				assert.NotEmpty(t, post.ContentType)
				assert.Equal(t, model.PostStatusPublic, post.Status)
			}

			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_Update(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		patch         PostPatch
		setupMock     func(*MockPostRepository)
		expectedError error
		check         func(*testing.T, *model.Post)
	}{
		{
			name:   "owner edits title",
			header: "Bearer alice",
			patch:  PostPatch{Title: strPtr("New title")},
			setupMock: func(m *MockPostRepository) {
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
			check: func(t *testing.T, p *model.Post) {
				assert.Equal(t, "New title", p.Title)
				assert.Equal(t, "hello", p.Clean)
			},
		},
		{
			name:          "other member is forbidden",
			header:        "Bearer bob",
			patch:         PostPatch{Title: strPtr("Hijacked")},
			setupMock:     func(*MockPostRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:   "admin edits any post",
			header: "Bearer admin",
			patch:  PostPatch{Clean: strPtr("renamed")},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "renamed").Return(nil, gorm.ErrRecordNotFound)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
			check: func(t *testing.T, p *model.Post) {
				assert.Equal(t, "renamed", p.Clean)
			},
		},
		{
			name:   "slug used by another post",
			header: "Bearer alice",
			patch:  PostPatch{Clean: strPtr("taken")},
			setupMock: func(m *MockPostRepository) {
				m.On("FindBySlug", mock.Anything, "taken").Return(&model.Post{ID: 8, Clean: "taken"}, nil)
			},
			expectedError: apperrors.ErrSlugTaken,
		},
		{
			name:          "self parent",
			header:        "Bearer alice",
			patch:         PostPatch{ParentID: uintPtr(100)},
			setupMock:     func(*MockPostRepository) {},
			expectedError: apperrors.ErrInvalidParent,
		},
		{
			name:   "descendant parent creates cycle",
			header: "Bearer alice",
			patch:  PostPatch{ParentID: uintPtr(102)},
			setupMock: func(m *MockPostRepository) {
				// 102 -> 101 -> 100
				m.On("ParentID", mock.Anything, uint(102)).Return(uintPtr(101), nil)
				m.On("ParentID", mock.Anything, uint(101)).Return(uintPtr(100), nil)
			},
			expectedError: apperrors.ErrInvalidParent,
		},
		{
			name:   "zero parent detaches",
			header: "Bearer alice",
			patch:  PostPatch{ParentID: uintPtr(0)},
			setupMock: func(m *MockPostRepository) {
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
			check: func(t *testing.T, p *model.Post) {
				assert.Nil(t, p.ParentID)
			},
		},
		{
			name:   "valid new parent",
			header: "Bearer alice",
			patch:  PostPatch{ParentID: uintPtr(7)},
			setupMock: func(m *MockPostRepository) {
				m.On("ParentID", mock.Anything, uint(7)).Return(uintPtr(6), nil)
				m.On("ParentID", mock.Anything, uint(6)).Return(nil, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
			check: func(t *testing.T, p *model.Post) {
				require.NotNil(t, p.ParentID)
				assert.Equal(t, uint(7), *p.ParentID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			original := &model.Post{ID: 100, Clean: "hello", Title: "Hello", UserID: alice.ID, ParentID: uintPtr(50)}
			posts.On("FindByID", mock.Anything, uint(100)).Return(original, nil)
			tt.setupMock(posts)
			svc := newPostServiceForTest(posts)

			post, err := svc.Update(context.Background(), tt.header, 100, tt.patch)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
				posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				tt.check(t, post)
			}

			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_UpdateMissingPost(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)
	svc := newPostServiceForTest(posts)

	_, err := svc.Update(context.Background(), "Basic xyz", 404, PostPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		expectDelete  bool
		expectedError error
	}{
		{name: "owner deletes", header: "Bearer alice", expectDelete: true},
		{name: "admin deletes", header: "Bearer admin", expectDelete: true},
		{name: "other member forbidden", header: "Bearer bob", expectedError: apperrors.ErrForbidden},
		{name: "wrong scheme", header: "Basic xyz", expectedError: apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			posts.On("FindByID", mock.Anything, uint(100)).Return(&model.Post{ID: 100, UserID: alice.ID}, nil)
			if tt.expectDelete {
				posts.On("Delete", mock.Anything, uint(100)).Return(nil, nil)
			}
			svc := newPostServiceForTest(posts)

			err := svc.Delete(context.Background(), tt.header, 100)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_GetAndChildren(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("FindByID", mock.Anything, uint(1)).Return(&model.Post{ID: 1, Clean: "about"}, nil)
	posts.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
	posts.On("ParentID", mock.Anything, uint(1)).Return(nil, nil)
	posts.On("ParentID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
	posts.On("Children", mock.Anything, uint(1)).Return([]model.Post{{ID: 3, ParentID: uintPtr(1)}}, nil)
	svc := newPostServiceForTest(posts)
	ctx := context.Background()

	post, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "about", post.Clean)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	children, err := svc.Children(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, children, 1)

	_, err = svc.Children(ctx, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
