package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"usuarios-api/cmd/api/di"
	"usuarios-api/cmd/api/server"
	"usuarios-api/internal/config"
	"usuarios-api/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New creates a new application instance
func New(ctx context.Context) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container),
		Container: container,
	}, nil
}

// Run brings the database up, then serves until ctx is cancelled or a
// server fails. The gRPC health service reports NOT_SERVING until the
// database bootstrap succeeds; the REST API only listens afterwards.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", getEnvironment()),
	)

	errChan := make(chan error, 2)
	go a.serve(errChan, "gRPC", func() error { return a.Server.StartGRPC(ctx) })

	if err := a.Container.Bootstrapper().Run(ctx); err != nil {
		if ctx.Err() != nil {
			a.Logger.Info("bootstrap interrupted by shutdown", zap.Error(err))
			return a.shutdown()
		}
		if shutdownErr := a.shutdown(); shutdownErr != nil {
			a.Logger.Error("cleanup after failed bootstrap", zap.Error(shutdownErr))
		}
		return fmt.Errorf("database bootstrap failed: %w", err)
	}

	a.Server.MarkServing()
	go a.serve(errChan, "gin", a.Server.StartGin)

	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down application...")
		return a.shutdown()
	case err := <-errChan:
		if shutdownErr := a.shutdown(); shutdownErr != nil {
			a.Logger.Error("cleanup after server failure", zap.Error(shutdownErr))
		}
		return err
	}
}

// serve runs start and reports its failure or panic on errChan.
func (a *App) serve(errChan chan<- error, name string, start func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in server goroutine",
				zap.String("server", name),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			errChan <- fmt.Errorf("%s server panic: %v", name, r)
		}
	}()

	if err := start(); err != nil {
		errChan <- fmt.Errorf("%s server error: %w", name, err)
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown",
		zap.Int("timeout_seconds", a.Config.App.ShutdownTimeoutSeconds),
	)

	var errs []error

	if a.Server.Health != nil {
		a.Server.Health.Shutdown()
	}

	if a.Server.Gin != nil {
		a.Logger.Info("shutting down Gin server...")
		if err := a.Server.Gin.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown Gin server", zap.Error(err))
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	if a.Server.GRPC != nil {
		a.Logger.Info("shutting down gRPC server...")
		a.Server.GRPC.GracefulStop()
	}

	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	if err := a.Logger.Sync(); err != nil {
		// Ignore sync errors for stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			errs = append(errs, fmt.Errorf("logger sync: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	return nil
}

// loadConfig loads application configuration
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    getEnvironment(),
	})
}

// getConfigPath returns the configuration path
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

// getEnvironment returns the application environment
func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
