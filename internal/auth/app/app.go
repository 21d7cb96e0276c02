package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpapi "github.com/NallyTHEdude/TMS-Server/internal/auth/http"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store/drivers/postgres"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store/drivers/sqlite"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v1.0.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db   store.Store
	keys *tokenKeys
	mail *mailStack

	// Services
	accountService      *service.AccountService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	// Background mail consumer, only with the redis mail driver
	consumerCancel context.CancelFunc
	consumerDone   sync.WaitGroup

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tms-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	keys, err := loadTokenKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token keys: %w", err)
	}
	app.keys = keys

	mail, err := newMailStack(ctx, cfg.Mail, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize mail: %w", err)
	}
	app.mail = mail

	if err := app.initServices(); err != nil {
		app.closeResources()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.startMailConsumer()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"db_driver", app.cfg.DatabaseDriver,
		"mail_driver", app.cfg.Mail.Driver,
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

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.stopMailConsumer()

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeResources() error {
	var errs []error
	if app.mail != nil && app.mail.redis != nil {
		if err := app.mail.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	hasher := cryptox.NewPasswordHasher(pepper)

	links := service.Links{
		BaseURL:          app.cfg.BaseURL,
		ResetPasswordURL: app.cfg.ResetPasswordURL,
	}

	app.accountService = &service.AccountService{
		Store:  app.db,
		Hasher: hasher,
		Tokens: cryptox.NewTemporaryTokenCodec(app.cfg.TemporaryTokenTTL),
		Mailer: app.mail.dispatcher,
		Links:  links,
	}

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Hasher: hasher,
		Issuer: &service.TokenIssuer{
			Access:     app.keys.accessSigner,
			Refresh:    app.keys.refreshSigner,
			Issuer:     app.cfg.Issuer,
			AccessTTL:  app.cfg.AccessTokenTTL,
			RefreshTTL: app.cfg.RefreshTokenTTL,
		},
		RefreshVerifier: app.keys.refreshVerifier,
		Mailer:          app.mail.dispatcher,
		Links:           links,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.accessVerifier,
		BuildVersion,
		app.db,
		httpapi.CookieOptions{Secure: app.cfg.CookieSecure},
		app.logger,
	)

	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	if app.mail.redis != nil {
		router.MailQueue = redisPinger{client: app.mail.redis}
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) startMailConsumer() {
	if app.mail.consumer == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.consumerCancel = cancel

	app.consumerDone.Add(1)
	go func() {
		defer app.consumerDone.Done()
		if err := app.mail.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error("mail consumer stopped", "error", err)
		}
	}()
}

func (app *Application) stopMailConsumer() {
	if app.consumerCancel == nil {
		return
	}
	app.consumerCancel()
	app.consumerDone.Wait()
}
