package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/KurirHub/courier_management_app/internal/platform/config"
)

// NewRedisOpt builds the asynq Redis connection options from config.
func NewRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewWorkerServer builds the asynq server and its task mux.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, sweep *SweepHandler, logger *slog.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Task failed", slog.String("type", task.Type()), slog.String("error", err.Error()))
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNightlySweep, sweep.HandleNightlySweep)
	return srv, mux
}

// NewSweepScheduler registers the nightly sweep on the configured cron spec.
func NewSweepScheduler(redisOpt asynq.RedisClientOpt, cfg *config.Config, logger *slog.Logger) (*asynq.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.SweepTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep timezone %q: %w", cfg.SweepTimezone, err)
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: loc})

	task, err := NewNightlySweepTask("")
	if err != nil {
		return nil, fmt.Errorf("failed to build sweep task: %w", err)
	}
	entryID, err := scheduler.Register(cfg.SweepCronSpec, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register sweep schedule: %w", err)
	}
	logger.Info("Registered nightly sweep", slog.String("entry_id", entryID), slog.String("cron", cfg.SweepCronSpec))
	return scheduler, nil
}
