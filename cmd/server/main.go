package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/pflag"

	"chyrp/docs"
	"chyrp/internal/auth"
	"chyrp/internal/authz"
	"chyrp/internal/cache"
	"chyrp/internal/config"
	"chyrp/internal/db"
	"chyrp/internal/handler"
	"chyrp/internal/repository"
	"chyrp/internal/router"
	"chyrp/internal/service"
)

// @title Chyrp API
// @version 1.0
// @description Blogging API with permission groups, post ownership and bearer-token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CHYRP_CONFIG"), "path to a YAML config file")
	port := pflag.StringP("port", "p", "", "listen port, overrides the config")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("config load failed", "event", "config_failed", "module", "main", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Error("database init failed", "event", "db_failed", "module", "main", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("auto-migrate failed", "event", "migrate_failed", "module", "main", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	interactionRepo := repository.NewInteractionRepository(gormDB)
	uploadRepo := repository.NewUploadRepository(gormDB)

	// Identity and authorization
	jwtService := auth.NewJWTService(cfg.JWTSecret, auth.WithTTL(cfg.TokenTTL))
	resolver := auth.NewResolver(jwtService, userRepo)
	gate := authz.NewGate(postRepo, resolver, logger)

	// Services
	authService := service.NewAuthService(userRepo, groupRepo, jwtService, cfg.DefaultGroup, logger)
	userService := service.NewUserService(userRepo, groupRepo, resolver, logger)
	groupService := service.NewGroupService(groupRepo, resolver, logger)
	postService := service.NewPostService(postRepo, gate, resolver, cacheClient, cfg.PostCacheTTL, logger)
	interactionService := service.NewInteractionService(interactionRepo, postRepo, userRepo, resolver)
	uploadService := service.NewUploadService(uploadRepo, resolver, cfg.UploadDir, cfg.MaxUploadBytes, logger)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Group:       handler.NewGroupHandler(groupService),
		Post:        handler.NewPostHandler(postService),
		Interaction: handler.NewInteractionHandler(interactionService),
		Upload:      handler.NewUploadHandler(uploadService),
	}, logger)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info("swagger documentation available",
		"event", "swagger_ready",
		"module", "main",
		"url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "event", "server_start", "module", "main", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "event", "server_failed", "module", "main", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "event", "server_shutdown_failed", "module", "main", "error", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Load()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
