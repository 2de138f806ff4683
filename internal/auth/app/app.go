package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/oauthcore/internal/auth/http"
	"github.com/aussiebroadwan/oauthcore/internal/auth/service"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store/drivers/s3"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	// Services
	userService         *service.UserService
	clientService       *service.ClientService
	tokenService        *service.TokenService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(context.Background()); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Users, Clients and Tokens expose the services to an embedding
// authorization server.
func (app *Application) Users() *service.UserService     { return app.userService }
func (app *Application) Clients() *service.ClientService { return app.clientService }
func (app *Application) Tokens() *service.TokenService   { return app.tokenService }

// Handler returns the HTTP handler with all routes applied.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initStore opens the configured store backend and applies migrations
func (app *Application) initStore(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case StoreDriverS3:
		db, err = s3.New(ctx, s3.Config{
			Endpoint:         app.cfg.S3.Endpoint,
			Region:           app.cfg.S3.Region,
			Bucket:           app.cfg.S3.Bucket,
			Prefix:           app.cfg.S3.Prefix,
			AccessKeyID:      app.cfg.S3.AccessKeyID,
			SecretAccessKey:  app.cfg.S3.SecretAccessKey,
			UsePathStyle:     app.cfg.S3.UsePathStyle,
			MaxRetryAttempts: app.cfg.S3.MaxRetryAttempts,
		})
	case StoreDriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	default:
		err = fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("store ready", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.clientService = &service.ClientService{Store: app.db}
	app.tokenService = &service.TokenService{
		Store:    app.db,
		Lifetime: app.cfg.TokenLifetime,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.ClientService = app.clientService
	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
