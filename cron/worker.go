package cron

import (
	"context"
	"fmt"
	"time"

	"reminderx/config"
	"reminderx/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DoseHandlers serve the steps of the dose retry chain.
type DoseHandlers interface {
	HandleRetry(ctx context.Context, t *asynq.Task) error
	HandleEscalate(ctx context.Context, t *asynq.Task) error
}

// QueueRedisOpt is the Redis connection of the delayed task queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the client used to schedule chain steps.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(QueueRedisOpt())
}

// NewDoseMux routes chain step types to their handlers.
func NewDoseMux(h DoseHandlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDoseRetry, h.HandleRetry)
	mux.HandleFunc(tasks.TypeDoseEscalate, h.HandleEscalate)
	return mux
}

// StartDoseWorker starts the queue worker in the background. The returned
// server must be shut down by the caller.
func StartDoseWorker(h DoseHandlers, logger *zap.Logger) *asynq.Server {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error("chain step failed",
					zap.String("type", task.Type()),
					zap.Int("retried", retried),
					zap.Int("maxRetry", maxRetry),
					zap.Error(err))
			}),
		},
	)
	mux := NewDoseMux(h)

	go func() {
		logger.Info("starting dose worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("dose worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal(fmt.Sprintf("dose worker: giving up after %d attempts", maxAttempts))
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}
