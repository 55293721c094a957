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

	httpapi "github.com/aussiebroadwan/xpanel/internal/panel/http"
	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
	"github.com/aussiebroadwan/xpanel/internal/panel/store/drivers/sqlite"
	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
	"github.com/aussiebroadwan/xpanel/pkg/jwtx"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application owns the control plane and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	hasher   *cryptox.PasswordHasher
	signer   jwtx.Signer
	verifier jwtx.Verifier
	clients  *panelsdk.Factory

	// Services
	adminService        *service.AdminService
	panelService        *service.PanelService
	tokenService        *service.TokenService
	systemService       *service.SystemService
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
			Service: "xpanel",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.signer, app.verifier, err = initSigningKey(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.clients = panelsdk.NewFactory(panelsdk.FactoryConfig{
		SessionTTL3XUI: cfg.SessionTTL3XUI,
		SessionTTLTXUI: cfg.SessionTTLTXUI,
		RequestTimeout: cfg.RequestTimeout,
		HealthTimeout:  cfg.HealthTimeout,
		Transport: panelsdk.TransportOptions{
			Timeout:            cfg.RequestTimeout,
			IdleTTL:            cfg.TransportIdleTTL,
			InsecureSkipVerify: cfg.TLSInsecure,
		},
	})
	if cfg.TLSInsecure {
		app.logger.Warn("panel TLS certificate verification disabled")
	}

	app.initServices()

	if err := app.bootstrap(); err != nil {
		app.clients.Close()
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("xpanel starting", "addr", app.cfg.HTTPAddr, "version", BuildVersion)

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
	app.logger.Info("shutting down xpanel...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	// In-flight panel calls are done once the server has drained.
	app.clients.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("xpanel stopped")
	return nil
}

// initDatabase opens the store, sealing panel secrets with the master key,
// and applies migrations.
func (app *Application) initDatabase() error {
	sealer, err := cryptox.LoadOrCreateSealer(app.cfg.MasterKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}

	db, err := sqlite.NewStore(app.cfg.DatabaseFile, sealer)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.adminService = &service.AdminService{
		Store:  app.db,
		Hasher: app.hasher,
	}
	app.panelService = &service.PanelService{
		Store:   app.db,
		Clients: app.clients,
	}
	app.tokenService = &service.TokenService{
		Signer:    app.signer,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.TokenTTL,
	}
	app.systemService = &service.SystemService{}

	app.housekeepingService = service.NewHousekeepingService(
		app.clients,
		app.logger,
		app.cfg.HousekeepingPeriod,
	)
}

// bootstrap creates the first superadmin on an empty database.
func (app *Application) bootstrap() error {
	ctx := slogx.WithContext(context.Background(), app.logger)

	generated, created, err := app.adminService.Bootstrap(ctx, app.cfg.BootstrapUsername, app.cfg.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap superadmin: %w", err)
	}
	if created && generated != "" {
		// Printed once; it is never stored in plain text.
		app.logger.Warn("generated bootstrap password, it will not be shown again",
			"username", app.cfg.BootstrapUsername,
			"password", generated,
		)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Directory = store.NewDirectory(app.db)
	router.Clients = app.clients
	router.AdminService = app.adminService
	router.PanelService = app.panelService
	router.TokenService = app.tokenService
	router.SystemService = app.systemService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Handler returns the HTTP handler with every route applied.
func (app *Application) Handler() http.Handler {
	return app.router
}
