package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chyrp/internal/model"
	"chyrp/internal/repository"
	"chyrp/internal/service"
)

// PostHandler handles post and page endpoints.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a post handler.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest represents a new post or page.
type CreatePostRequest struct {
	ContentType model.ContentType `json:"content_type" validate:"omitempty,oneof=post page"`
	Feather     string            `json:"feather" validate:"max=50"`
	Clean       string            `json:"clean" validate:"required,max=255"`
	Status      model.PostStatus  `json:"status" validate:"omitempty,oneof=public draft"`
	Pinned      bool              `json:"pinned"`
	Title       string            `json:"title" validate:"max=255"`
	Body        string            `json:"body"`
	ParentID    *uint             `json:"parent_id"`
}

// UpdatePostRequest carries a partial update. A parent_id of 0 detaches the
// post from its parent.
type UpdatePostRequest struct {
	ContentType *model.ContentType `json:"content_type" validate:"omitempty,oneof=post page"`
	Feather     *string            `json:"feather" validate:"omitempty,max=50"`
	Clean       *string            `json:"clean" validate:"omitempty,min=1,max=255"`
	Status      *model.PostStatus  `json:"status" validate:"omitempty,oneof=public draft"`
	Pinned      *bool              `json:"pinned"`
	Title       *string            `json:"title" validate:"omitempty,max=255"`
	Body        *string            `json:"body"`
	ParentID    *uint              `json:"parent_id"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID          uint              `json:"id"`
	ContentType model.ContentType `json:"content_type"`
	Feather     string            `json:"feather,omitempty"`
	Clean       string            `json:"clean"`
	Status      model.PostStatus  `json:"status"`
	Pinned      bool              `json:"pinned"`
	Title       string            `json:"title,omitempty"`
	Body        string            `json:"body,omitempty"`
	ParentID    *uint             `json:"parent_id,omitempty"`
	Owner       model.UserSummary `json:"owner"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toPostResponse(p *model.Post) PostResponse {
	owner := p.Owner.Summary()
	if owner.ID == 0 {
		owner.ID = p.UserID
	}
	return PostResponse{
		ID:          p.ID,
		ContentType: p.ContentType,
		Feather:     p.Feather,
		Clean:       p.Clean,
		Status:      p.Status,
		Pinned:      p.Pinned,
		Title:       p.Title,
		Body:        p.Body,
		ParentID:    p.ParentID,
		Owner:       owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

// CreatePost godoc
// @Summary Create a post or page
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.svc.Create(c.Request().Context(), authorization(c), service.CreatePostInput{
		ContentType: req.ContentType,
		Feather:     req.Feather,
		Clean:       req.Clean,
		Status:      req.Status,
		Pinned:      req.Pinned,
		Title:       req.Title,
		Body:        req.Body,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// ListPosts godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Param content_type query string false "post or page"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	filter := repository.PostFilter{ContentType: model.ContentType(c.QueryParam("content_type"))}
	switch filter.ContentType {
	case "", model.ContentTypePost, model.ContentTypePage:
	default:
		return badRequest("invalid content_type")
	}
	filter.Offset, filter.Limit = pagination(c)

	posts, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// ListChildren godoc
// @Summary List direct children of a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/children [get]
func (h *PostHandler) ListChildren(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	posts, err := h.svc.Children(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// UpdatePost godoc
// @Summary Update a post
// @Description Owners need edit_own_post, everyone else edit_post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Changes"
// @Success 200 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.svc.Update(c.Request().Context(), authorization(c), id, service.PostPatch{
		ContentType: req.ContentType,
		Feather:     req.Feather,
		Clean:       req.Clean,
		Status:      req.Status,
		Pinned:      req.Pinned,
		Title:       req.Title,
		Body:        req.Body,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// DeletePost godoc
// @Summary Delete a post
// @Description Owners need delete_own_post, everyone else delete_post.
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), authorization(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
