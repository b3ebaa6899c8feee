// Package main initializes and starts the publishing server, setting up
// configuration, logging, the database, repositories, services, the batch
// scheduler and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/dkoval/postline/internal/config"
	"github.com/dkoval/postline/internal/crypto"
	"github.com/dkoval/postline/internal/db"
	"github.com/dkoval/postline/internal/logger"
	"github.com/dkoval/postline/internal/models"
	"github.com/dkoval/postline/internal/repository"
	"github.com/dkoval/postline/internal/scheduler"
	"github.com/dkoval/postline/internal/server/handler/http"
	"github.com/dkoval/postline/internal/service"
	"github.com/dkoval/postline/internal/twitter"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Parse environment configuration.
	options, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		os.Exit(1)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The credential codec fails fast without a key.
	codec, err := crypto.New(options.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("cannot init credential codec", zap.Error(err))
	}
	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET is not set")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for posts and user settings.
	postRepo := repository.NewPostgresPostRepository(postgresDB)
	settingsRepo := repository.NewPostgresSettingsRepository(postgresDB)

	// The X client factory; every publish builds a client from that user's
	// decrypted credentials.
	factory := &twitter.Factory{
		BaseURL: options.TwitterBaseURL,
		Timeout: options.PublishTimeout,
	}
	clients := service.ClientFactoryFunc(func(bundle models.CredentialBundle) service.PublishingClient {
		return factory.NewClient(bundle)
	})

	// Initialize business-logic services.
	publisher := service.NewPublisher(settingsRepo, postRepo, codec, clients, zapLogger, options.BatchParallelism)
	postService := service.NewPostService(postRepo)
	settingsService := service.NewSettingsService(settingsRepo, codec)

	// Start the in-process batch ticker unless an external trigger is used.
	if options.SchedulerEnabled {
		scheduler.Start(ctx, publisher, options.SchedulerInterval, zapLogger)
	}

	// Create HTTP handlers and build the router.
	postHandler := &http.PostHandler{PostService: postService}
	settingsHandler := &http.SettingsHandler{SettingsService: settingsService}
	publishHandler := &http.PublishHandler{
		PublishService: publisher,
		SchedulerToken: options.SchedulerToken,
	}
	router := http.NewRouter(postHandler, settingsHandler, publishHandler, options.JWTSecret, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown", zap.Error(err))
	}
}
