package main

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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/deskplanner/internal/application"
	"github.com/example/deskplanner/internal/config"
	httptransport "github.com/example/deskplanner/internal/http"
	"github.com/example/deskplanner/internal/logging"
	"github.com/example/deskplanner/internal/persistence/sqlite"
)

func main() {
	logger := logging.New(slog.LevelInfo)
	slog.SetDefault(logger)

	root := newRootCommand(logger)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "deskplanner",
		Short:         "Office desk planner service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(logger))
	root.AddCommand(newMigrateCommand(logger))
	root.AddCommand(newSeedCommand(logger))
	return root
}

func newServeCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, logger)
		},
	}
}

func newMigrateCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openStorage(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeStorage(pool, logger)

			logger.Info("migrations applied")
			return nil
		},
	}
}

func newSeedCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load the sample office",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openStorage(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeStorage(pool, logger)

			if err := sqlite.Seed(cmd.Context(), pool, uuid.NewString); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
			logger.Info("sample data loaded")
			return nil
		},
	}
}

// openStorage loads configuration, opens the SQLite pool and brings the
// schema up to date.
func openStorage(ctx context.Context, logger *slog.Logger) (*sqlite.ConnectionPool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		closeStorage(pool, logger)
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return pool, nil
}

func closeStorage(pool *sqlite.ConnectionPool, logger *slog.Logger) {
	if err := pool.Close(); err != nil {
		logger.Error("failed to close storage", "error", err)
	}
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage(pool, logger)

	if err := pool.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	employeeRepo := sqlite.NewEmployeeRepository(pool)
	deskRepo := sqlite.NewDeskRepository(pool)
	preferenceRepo := sqlite.NewPreferenceRepository(pool)
	assignmentRepo := sqlite.NewAssignmentRepository(pool)

	idGenerator := uuid.NewString
	now := time.Now

	employeeService := application.NewEmployeeService(employeeRepo, idGenerator, now, logger)
	deskService := application.NewDeskService(deskRepo, idGenerator, now, logger)
	preferenceService := application.NewPreferenceService(preferenceRepo, employeeRepo, deskRepo, idGenerator, logger)
	plannerService := application.NewPlannerService(employeeRepo, deskRepo, preferenceRepo, assignmentRepo, idGenerator, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Planner:     httptransport.NewPlannerHandler(plannerService, logger),
		Employees:   httptransport.NewEmployeeHandler(employeeService, logger),
		Desks:       httptransport.NewDeskHandler(deskService, logger),
		Preferences: httptransport.NewPreferenceHandler(preferenceService, logger),
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("desk planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
