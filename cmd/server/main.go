package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quillpost/internal/cache"
	"quillpost/internal/config"
	"quillpost/internal/db"
	"quillpost/internal/log"
	"quillpost/internal/repository"
	"quillpost/internal/router"
	"quillpost/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := log.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "quillpost"})
	logger := log.L()
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment variables")
	}
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.New(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}

	blobs, err := newStorage(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("storage initialized")

	pages, err := newPageCache(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize page cache")
	}
	defer pages.Close()
	logger.Info().Str("driver", cfg.Cache.Driver).Dur("ttl", cfg.Cache.PageTTL).Msg("page cache initialized")

	engine := router.New(router.Deps{
		Repos:         repository.NewGormRepositories(conn),
		Blobs:         blobs,
		Pages:         pages,
		PageTTL:       cfg.Cache.PageTTL,
		PostsPerPage:  cfg.Feed.PostsPerPage,
		MaxImageSize:  cfg.Storage.MaxImageSize,
		SessionName:   cfg.Session.Name,
		SessionSecret: cfg.Session.Secret,
		SiteURL:       cfg.Server.SiteURL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("quillpost listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("server exited")
}

func newStorage(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "s3":
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
	case "local", "":
		return storage.NewLocalStorage(cfg.Local.BasePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newPageCache(cfg *config.Config) (cache.PageCache, error) {
	switch cfg.Cache.Driver {
	case "redis":
		return cache.NewRedisPageCache(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Cache.Prefix,
		})
	case "memory", "":
		return cache.NewMemoryPageCache(cfg.Cache.Size)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
