// The sweeper runs the background job infrastructure: an asynq worker that
// executes the nightly attendance sweep, and a scheduler that enqueues it on
// the configured cron spec.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KurirHub/courier_management_app/internal/core/services"
	"github.com/KurirHub/courier_management_app/internal/jobs"
	"github.com/KurirHub/courier_management_app/internal/platform/config"
	"github.com/KurirHub/courier_management_app/internal/repositories/database/pgsql"
	"github.com/KurirHub/courier_management_app/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, nil)

	redisOpt := jobs.NewRedisOpt(cfg)
	sweep := jobs.NewSweepHandler(serviceContainer.Attendance, repos.SessionRepo, logger)

	srv, mux := jobs.NewWorkerServer(redisOpt, sweep, logger)

	scheduler, err := jobs.NewSweepScheduler(redisOpt, cfg, logger)
	if err != nil {
		logger.Error("Failed to build scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := scheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer scheduler.Shutdown()

	if err := srv.Start(mux); err != nil {
		logger.Error("Failed to start worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Sweeper running", slog.String("redis", cfg.RedisAddr), slog.String("cron", cfg.SweepCronSpec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down sweeper")
	srv.Shutdown()
}
