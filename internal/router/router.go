package router

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"chyrp/internal/config"
	"chyrp/internal/handler"
)

// multipartOverhead is headroom above MaxUploadBytes for multipart framing, so
// oversized files are still rejected by the upload service with its own error.
const multipartOverhead = 64 << 10

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Group       *handler.GroupHandler
	Post        *handler.PostHandler
	Interaction *handler.InteractionHandler
	Upload      *handler.UploadHandler
}

// Register wires routes and middleware. Authentication is not a middleware:
// handlers hand the raw Authorization header to the services, which resolve
// identity after loading the target resource.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig(logger)))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.POST("/token", h.Auth.Token)
	api.POST("/users", h.Auth.Register)

	api.GET("/me", h.User.Me)
	api.GET("/me/likes", h.Interaction.MyLikes)
	api.GET("/me/bookmarks", h.Interaction.MyBookmarks)
	api.GET("/me/favorites", h.Interaction.MyFavorites)

	api.GET("/users/:id", h.User.GetUser)
	api.PUT("/users/:id/group", h.User.ChangeGroup)
	api.POST("/users/:id/favorite", h.Interaction.FavoriteWriter)
	api.DELETE("/users/:id/favorite", h.Interaction.UnfavoriteWriter)

	api.POST("/groups", h.Group.CreateGroup)
	api.GET("/groups", h.Group.ListGroups)

	api.POST("/posts", h.Post.CreatePost)
	api.GET("/posts", h.Post.ListPosts)
	api.GET("/posts/:id", h.Post.GetPost)
	api.GET("/posts/:id/children", h.Post.ListChildren)
	api.PUT("/posts/:id", h.Post.UpdatePost)
	api.DELETE("/posts/:id", h.Post.DeletePost)
	api.POST("/posts/:id/like", h.Interaction.LikePost)
	api.DELETE("/posts/:id/like", h.Interaction.UnlikePost)
	api.POST("/posts/:id/bookmark", h.Interaction.BookmarkPost)
	api.DELETE("/posts/:id/bookmark", h.Interaction.UnbookmarkPost)

	api.POST("/uploads", h.Upload.Upload, middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))
	api.GET("/uploads", h.Upload.ListUploads)
}

// bodyLimit formats a byte count in kilobytes, rounded up, for middleware.BodyLimit.
func bodyLimit(maxUploadBytes int64) string {
	kb := (maxUploadBytes + multipartOverhead + 1023) / 1024
	return strconv.FormatInt(kb, 10) + "K"
}

func requestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("event", "http_request"),
				slog.String("module", "router"),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil && level == slog.LevelError {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
