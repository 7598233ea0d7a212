package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tally/config"
	userRepo "tally/database/repository/user"
	"tally/services/token"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const (
	TypeReconcileSweep = "reconcile:sweep"
	TypeReconcileUser  = "reconcile:user"
)

// ReconcilePayload identifies the user a reconcile task targets.
type ReconcilePayload struct {
	UserID string `json:"userId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}
}

// InitReconcileWorker runs the async worker in background. The sweep
// task fans out one reconcile task per user; reconciliation is
// idempotent, so overlap with request-path backfill is harmless.
func InitReconcileWorker(tokenSvc token.TokenService, users userRepo.UserRepository) {
	opts := redisOpts()

	srv := asynq.NewServer(
		opts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	client := asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileSweep, handleSweepTask(client, users))
	mux.HandleFunc(TypeReconcileUser, handleReconcileTask(tokenSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReconcileWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// StartSweepScheduler enqueues the close-of-day sweep on the configured
// cron expression.
func StartSweepScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{
		Location: time.Local,
	})

	task := asynq.NewTask(TypeReconcileSweep, nil)
	if _, err := scheduler.Register(config.AppConfig.ReconcileSweepCron, task); err != nil {
		log.Fatalf("[ReconcileWorker] Failed to register sweep schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[ReconcileWorker] Scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(client *asynq.Client, users userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ids, err := users.AllIDs()
		if err != nil {
			log.Printf("[SweepHandler] Failed to list users: %v", err)
			return err
		}

		log.Printf("[SweepHandler] Sweeping %d users", len(ids))
		for _, id := range ids {
			payload, err := json.Marshal(ReconcilePayload{UserID: id})
			if err != nil {
				return err
			}
			t := asynq.NewTask(TypeReconcileUser, payload)
			if _, err := client.Enqueue(t, asynq.MaxRetry(3)); err != nil {
				log.Printf("[SweepHandler] Failed to enqueue reconcile for %s: %v", id, err)
			}
		}
		return nil
	}
}

func handleReconcileTask(tokenSvc token.TokenService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReconcileHandler] Invalid payload: %v", err)
			return err
		}

		if err := tokenSvc.Reconcile(ctx, p.UserID); err != nil {
			log.Printf("[ReconcileHandler] Reconcile failed for %s: %v", p.UserID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReconcileWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
