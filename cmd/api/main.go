//	@title			bucketdrop API
//	@version		1.0
//	@description	File uploads and image blog posts on top of an S3-compatible object store.
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Optional HS256 JWT. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bucketdrop/service/internal/config"
	"github.com/bucketdrop/service/internal/file"
	"github.com/bucketdrop/service/internal/post"
	"github.com/bucketdrop/service/internal/server"
	"github.com/bucketdrop/service/internal/storage"
	"github.com/bucketdrop/service/internal/trace"
)

var version = "dev"

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	ctx := context.Background()

	tp, err := trace.NewProvider(ctx, trace.Service{
		Name:        "github.com/bucketdrop/service",
		Version:     version,
		Environment: cfg.AppEnv,
		Exporter:    cfg.TraceExporter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create trace provider")
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("object storage init failed")
	}
	defer closeStore()

	// Wire dependencies: repository → service → handler
	fileSvc := file.NewService(store, cfg.MaxUploadBytes)
	fileHandler := file.NewHandler(fileSvc, cfg.MaxUploadBytes)

	postRepo := post.NewRepository(store)
	postSvc := post.NewService(postRepo, store, cfg.CompensateOrphans)
	postHandler := post.NewHandler(postSvc, cfg.MaxUploadBytes)

	router := server.NewRouter(server.Deps{
		Files:       fileHandler,
		Posts:       postHandler,
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   cfg.AuthJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("bucket", cfg.Bucket).
			Str("region", cfg.AWSRegion).
			Str("public_base", cfg.PublicBase()).
			Bool("auth", cfg.AuthJWTSecret != "").
			Msg("server listening")
		log.Info().Msgf("API available at http://localhost:%s/api", cfg.Port)
		log.Info().Msgf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.LogFormat != "json" && !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// openStore builds the configured blob store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case "minio":
		s, err := storage.NewMinioStorage(ctx, storage.MinioOptions{
			Endpoint:     cfg.StorageEndpoint,
			AccessKey:    cfg.AWSAccessKeyID,
			SecretKey:    cfg.AWSSecretAccessKey,
			Region:       cfg.AWSRegion,
			Bucket:       cfg.Bucket,
			PublicBase:   cfg.PublicBase(),
			UseSSL:       cfg.StorageUseSSL,
			CreateBucket: cfg.StorageCreateBucket,
			PublicRead:   cfg.StoragePublicPolicy,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "gocloud":
		s, err := storage.NewGocloudStorage(ctx, cfg.BlobURL, cfg.PublicBase())
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close blob bucket")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q (want minio or gocloud)", cfg.StorageDriver)
	}
}
