package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/database"
	"bookkeeping-web/internal/utils"
	"bookkeeping-web/internal/worker"
)

// Batch posting jobs land in "critical" so a large report export can never
// starve them; exports go to "default".
var queueWeights = map[string]int{
	"critical": 6,
	"default":  3,
	"low":      1,
}

func newServer(cfg *config.Config) *asynq.Server {
	logger := utils.GetLogger()
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency:     cfg.WorkerConcurrency,
			Queues:          queueWeights,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.WithField("task", task.Type()).WithError(err).Error("task failed")
			}),
		},
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	srv := newServer(cfg)

	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, db, redisClient, cfg)

	// Graceful shutdown: in-flight tasks get ShutdownTimeout to finish.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.GetLogger().Info("shutting down worker")
		srv.Shutdown()
	}()

	utils.GetLogger().WithField("concurrency", cfg.WorkerConcurrency).Info("worker starting")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
}
