package errors

import (
	"errors"
	"net/http"

	"chyrp/internal/auth"
)

var (
	// ErrNotFound is returned when the target resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthenticated is returned when the caller's identity cannot be established.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the caller lacks the capability for an action.
	ErrForbidden = errors.New("not authorized to perform this action")
	// ErrInvalidCredentials is returned when login or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserAlreadyExists is returned when the login or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrGroupAlreadyExists is returned when a group name is taken.
	ErrGroupAlreadyExists = errors.New("group already exists")
	// ErrNoGroups is returned when a user is registered before any group exists.
	ErrNoGroups = errors.New("no groups found, create a group first")
	// ErrSlugTaken is returned when another post already uses the slug.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrInvalidParent is returned when a parent post is missing or would create a cycle.
	ErrInvalidParent = errors.New("invalid parent post")
	// ErrInvalidInput is returned for semantically invalid request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Every identity failure
// collapses to the same 401 so clients cannot tell which check failed.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated), auth.IsIdentityError(err):
		return NewHTTPError(http.StatusUnauthorized, "could not validate credentials", "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrGroupAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrGroupAlreadyExists.Error(), "GROUP_ALREADY_EXISTS")
	case errors.Is(err, ErrSlugTaken):
		return NewHTTPError(http.StatusConflict, ErrSlugTaken.Error(), "SLUG_TAKEN")
	case errors.Is(err, ErrNoGroups):
		return NewHTTPError(http.StatusBadRequest, ErrNoGroups.Error(), "NO_GROUPS")
	case errors.Is(err, ErrInvalidParent):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidParent.Error(), "INVALID_PARENT")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrUploadTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, ErrUploadTooLarge.Error(), "UPLOAD_TOO_LARGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
