package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/config"
	"github.com/haisenberg98/brewgear-api/internal/obs"
	"github.com/haisenberg98/brewgear-api/internal/store"
	"github.com/haisenberg98/brewgear-api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "worker").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisOpt := asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB}

	handlers := &tasks.Handlers{
		Mail:   common.NopEmailSender{},
		Carts:  store.CartRepo{DB: pool},
		Logger: &logger,
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1h", tasks.NewExpiredCartSweepTask()); err != nil {
		logger.Fatal().Err(err).Msg("register cart sweep")
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error().Err(err).Msg("scheduler stopped")
		}
	}()

	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 4})

	logger.Info().Msg("worker starting")
	if err := srv.Run(handlers.Mux()); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
}
