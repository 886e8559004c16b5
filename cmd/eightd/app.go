package main

import (
	"context"
	"fmt"

	"github.com/lalith-99/eightd/internal/config"
	"github.com/lalith-99/eightd/internal/db"
	"github.com/lalith-99/eightd/internal/observ"
	"github.com/lalith-99/eightd/internal/repository"
	"github.com/lalith-99/eightd/internal/repository/memory"
	"github.com/lalith-99/eightd/internal/repository/postgres"
	"go.uber.org/zap"
)

// app holds what every subcommand needs. database is nil for the memory
// store.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *repository.Store
	database *db.DB
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(observ.LogOptions{
		Env:   cfg.Env,
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		a.store = memory.NewStore()
	default:
		database, err := db.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, logger)
		if err != nil {
			_ = logger.Sync()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.database = database
		a.store = postgres.NewStore(database.Pool())
		a.store.Ping = database.Health
	}
	return a, nil
}

func (a *app) close() {
	if a.database != nil {
		a.database.Close()
	}
	_ = a.logger.Sync()
}

// migrator returns a Migrator over a database/sql handle borrowed from the
// pool. The caller must call the returned func to release the handle.
func (a *app) migrator() (*db.Migrator, func(), error) {
	if a.database == nil {
		return nil, nil, fmt.Errorf("migrations need STORE_DRIVER=%s", config.StorePostgres)
	}
	sqlDB := a.database.SQL()
	release := func() {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("close migration handle", zap.Error(err))
		}
	}
	return db.NewMigrator(sqlDB, db.Migrations, "migrations"), release, nil
}
