package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/config"
	"jobmate/alignment-service/internal/db"
	"jobmate/alignment-service/internal/employment"
	"jobmate/alignment-service/internal/logging"
	"jobmate/alignment-service/internal/refstore"
	"jobmate/alignment-service/internal/scheduler"
	"jobmate/alignment-service/internal/seed"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stores *alignment.StoreSet
	engine *alignment.Engine
	repo   employment.Repository
	rdb    *redis.Client

	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	a := &app{cfg: cfg, logger: logger}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		logger.Info("connecting to PostgreSQL")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := db.MigratePostgres(ctx, pool); err != nil {
			a.close()
			return nil, err
		}
		a.stores = refstore.NewPostgresStoreSet(catalog, pool)
		a.repo = employment.NewPostgresRepository(pool)
	case config.DriverSQLite:
		logger.Info("opening SQLite", "path", cfg.SQLitePath)
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		a.stores = refstore.NewSQLiteStoreSet(catalog, sqlDB)
		a.repo = employment.NewSQLiteRepository(sqlDB)
	default:
		logger.Warn("using in-memory storage; nothing survives a restart")
		a.stores = alignment.NewStoreSet(catalog, func(t alignment.Track) alignment.ReferenceStore {
			return alignment.NewMemoryStore(t)
		})
		a.repo = employment.NewMemoryRepository()
	}

	if cfg.RedisURL != "" {
		logger.Info("connecting to Redis")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.rdb = rdb
		a.closers = append(a.closers, func() { _ = rdb.Close() })
	}

	sim, err := alignment.SimilarityByName(cfg.Similarity)
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = alignment.NewEngine(a.stores, alignment.Options{
		FuzzyThreshold: cfg.FuzzyThreshold,
		Similarity:     sim,
		Policy:         cfg.AttributePolicy(),
		Logger:         logger.With("component", "engine"),
	})
	return a, nil
}

// service builds the employment service; extra options are applied last.
func (a *app) service(opts ...employment.Option) *employment.Service {
	base := []employment.Option{
		employment.WithPublisher(a.publisher()),
		employment.WithLogger(a.logger.With("component", "employment")),
	}
	return employment.NewService(a.engine, a.repo, append(base, opts...)...)
}

func (a *app) publisher() employment.Publisher {
	if a.rdb == nil {
		return employment.NopPublisher{}
	}
	return employment.NewRedisPublisher(a.rdb)
}

func (a *app) progress() scheduler.ProgressStore {
	if a.rdb == nil {
		return scheduler.NopProgress{}
	}
	return scheduler.NewRedisProgress(a.rdb)
}

// seedFrom imports a seed file into the reference stores.
func (a *app) seedFrom(ctx context.Context, path string) (seed.Stats, error) {
	f, err := seed.LoadFile(path)
	if err != nil {
		return seed.Stats{}, err
	}
	im := seed.NewImporter(a.stores, seed.DefaultCategorizer(), a.logger.With("component", "seed"))
	return im.Import(ctx, f)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
