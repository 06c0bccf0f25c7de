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

	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence/postgres"
	apphttp "github.com/a1-en/E-Shoe-Store/internal/interfaces/http"
	"github.com/a1-en/E-Shoe-Store/pkg/logger"
)

func run() error {
	// Load configuration
	cfg := config.Load()
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	logger.SetDefault(log)

	log.Info("Starting credential service...",
		logger.Component("main"),
	)

	// Initialize infrastructure
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to PostgreSQL",
		logger.Component("infrastructure"),
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
	)

	// Initialize application
	repos := persistence.NewRepositories(db)
	deps := application.NewDependencies(cfg)
	svcs := application.NewServices(repos, deps, cfg)

	// Create and start server
	server := newServer(cfg, svcs, deps, db, log)
	return startServer(server, log)
}

func newServer(
	cfg *config.Config,
	svcs *application.Services,
	deps *application.Dependencies,
	db *postgres.DB,
	log logger.Logger,
) *http.Server {
	routerDeps := &apphttp.RouterDeps{
		AuthService: svcs.Auth,
		JWTManager:  deps.JWTManager,
		DBHealther:  db,
		Logger:      log,
	}

	router := apphttp.NewRouter(cfg, routerDeps)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func startServer(server *http.Server, log logger.Logger) error {
	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			logger.Component("server"),
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...",
			logger.Component("server"),
			logger.String("signal", sig.String()),
		)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited", logger.Component("server"))
	return nil
}
