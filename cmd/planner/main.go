package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/petscare-dev/staff-allocator/backend/internal/allocator"
	"github.com/petscare-dev/staff-allocator/backend/internal/cache"
	"github.com/petscare-dev/staff-allocator/backend/internal/config"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
	"github.com/petscare-dev/staff-allocator/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The planner drains the planning job queue and runs batch assignment runs
// against the same engine the API uses for single bookings.
func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("unable to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	store := cache.NewStore(cfg, repo, rdb, logger)
	engine := allocator.New(store, logger, allocator.WithCommitRetries(cfg.Allocator.CommitRetries))

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("unable to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("unable to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		domain.PlanningJobQueue,
		true,  // durable
		false, // keep the queue around when no consumer is attached
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("unable to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual acks, a crashed run must be redelivered
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("unable to consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("planning job received", slog.Int("bytes", len(msg.Body)))

				job := domain.PlanningJob{}
				if err := json.Unmarshal(msg.Body, &job); err != nil {
					logger.Error("planning job payload corrupt", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				requests := make([]allocator.Request, 0, len(job.Requests))
				skip := false
				for _, jr := range job.Requests {
					span, err := interval.New(jr.StartTime, jr.EndTime)
					if err != nil {
						logger.Error("planning job has an invalid interval", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						skip = true
						break
					}
					requests = append(requests, allocator.Request{
						LocationID: job.LocationID,
						ServiceID:  jr.ServiceID,
						Span:       span,
						CustomerID: jr.CustomerID,
						Notes:      jr.Notes,
					})
				}
				if skip {
					continue
				}

				result, err := engine.AssignBatch(ctx, job.LocationID, requests)
				if err != nil {
					logger.Error("planning run failed", slog.Int64("locationID", job.LocationID), slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue, the failure is likely transient
					continue
				}

				assigned := 0
				for _, item := range result.Items {
					if item.Staff != nil {
						assigned++
					}
				}
				unmet := 0
				for _, c := range result.Coverage {
					if !c.Met {
						unmet++
					}
				}
				logger.Info("planning run finished",
					slog.Int64("locationID", job.LocationID),
					slog.Int("requests", len(result.Items)),
					slog.Int("assigned", assigned),
					slog.Int("unmetRequirements", unmet),
				)

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for planning jobs... (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down planner...")
	cancel()
	wg.Wait()
	slog.Info("planner stopped")
}
