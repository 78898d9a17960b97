package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/leadbook/backend/internal/config"
	"github.com/pkordes/leadbook/backend/internal/repo"
	"github.com/pkordes/leadbook/backend/migrations"
)

// openKV connects the configured storage backend. The returned func releases
// it and is never nil.
func openKV(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.KV, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn("using in-memory storage; leads are lost on restart")
		return repo.NewMemoryKV(), noop, nil

	case config.BackendFile:
		kv, err := repo.NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		log.Info("using file storage", "dir", cfg.DataDir)
		return kv, noop, nil

	case config.BackendRedis:
		client, err := repo.NewRedisClient(ctx, repo.RedisOptions{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			ConnectTimeout: 30 * time.Second,
			RetryInterval:  500 * time.Millisecond,
			MaxWait:        5 * time.Second,
		}, log)
		if err != nil {
			return nil, noop, err
		}
		return repo.NewRedisKV(client, "leadbook:"), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		// pgxpool.New does not open connections immediately; the ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		log.Info("database connection established")

		// goose needs database/sql; borrow the pool's connections for it.
		db := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		log.Info("migrations applied", "count", n)
		return repo.NewPostgresKV(pool), pool.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
