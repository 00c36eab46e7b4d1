package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"chyrp/internal/model"
	"chyrp/internal/service"
)

// InteractionHandler handles likes, bookmarks and favorite writers.
type InteractionHandler struct {
	svc service.InteractionService
}

// NewInteractionHandler creates an interaction handler.
func NewInteractionHandler(svc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type targetAction func(ctx context.Context, rawHeader string, id uint) error

// onTarget runs action for the id path parameter and answers 204.
func onTarget(c echo.Context, action targetAction) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := action(c.Request().Context(), authorization(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LikePost godoc
// @Summary Like a post
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/like [post]
func (h *InteractionHandler) LikePost(c echo.Context) error {
	return onTarget(c, h.svc.Like)
}

// UnlikePost godoc
// @Summary Remove a like
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/like [delete]
func (h *InteractionHandler) UnlikePost(c echo.Context) error {
	return onTarget(c, h.svc.Unlike)
}

// BookmarkPost godoc
// @Summary Bookmark a post
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/bookmark [post]
func (h *InteractionHandler) BookmarkPost(c echo.Context) error {
	return onTarget(c, h.svc.Bookmark)
}

// UnbookmarkPost godoc
// @Summary Remove a bookmark
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/bookmark [delete]
func (h *InteractionHandler) UnbookmarkPost(c echo.Context) error {
	return onTarget(c, h.svc.Unbookmark)
}

// FavoriteWriter godoc
// @Summary Follow a writer
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/favorite [post]
func (h *InteractionHandler) FavoriteWriter(c echo.Context) error {
	return onTarget(c, h.svc.Favorite)
}

// UnfavoriteWriter godoc
// @Summary Unfollow a writer
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/{id}/favorite [delete]
func (h *InteractionHandler) UnfavoriteWriter(c echo.Context) error {
	return onTarget(c, h.svc.Unfavorite)
}

// MyLikes godoc
// @Summary Posts liked by the caller
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PostResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/likes [get]
func (h *InteractionHandler) MyLikes(c echo.Context) error {
	posts, err := h.svc.LikedPosts(c.Request().Context(), authorization(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// MyBookmarks godoc
// @Summary Posts bookmarked by the caller
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PostResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/bookmarks [get]
func (h *InteractionHandler) MyBookmarks(c echo.Context) error {
	posts, err := h.svc.BookmarkedPosts(c.Request().Context(), authorization(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// MyFavorites godoc
// @Summary Writers followed by the caller
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/favorites [get]
func (h *InteractionHandler) MyFavorites(c echo.Context) error {
	users, err := h.svc.Favorites(c.Request().Context(), authorization(c))
	if err != nil {
		return fail(c, err)
	}
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return c.JSON(http.StatusOK, out)
}
