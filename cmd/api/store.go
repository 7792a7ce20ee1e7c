package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"crudapi/internal/config"
	"crudapi/internal/database"
	"crudapi/internal/database/migration"
	"crudapi/internal/model"
	"crudapi/internal/repository"
	"crudapi/internal/repository/mongodb"
	"crudapi/internal/repository/postgres"
)

// store is the single document-store handle opened at startup.
type store struct {
	items  repository.Repository[model.Item]
	pinger database.Pinger
	close  func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		log.Info("store_connected", zap.String("driver", config.DriverMongo), zap.String("database", cfg.Mongo.Database))
		return &store{
			items:  mongodb.NewCollection[model.Item](db.Collection(model.ItemCollection)),
			pinger: database.MongoPinger(client),
			close:  client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &store{
			items:  postgres.NewDocumentTable[model.Item](db, model.ItemCollection),
			pinger: database.SQLPinger(db),
			close:  func(context.Context) error { return db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, config.DriverMongo, config.DriverPostgres)
	}
}

// openPostgres connects and makes sure the documents table exists.
func openPostgres(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("store_connected", zap.String("driver", config.DriverPostgres), zap.String("db_host", cfg.Database.Host))
	return db, nil
}

func runMigrate(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	if cfg.StoreDriver != config.DriverPostgres {
		log.Info("db_migration_skip", zap.String("driver", cfg.StoreDriver), zap.String("reason", "schemaless store"))
		return nil
	}
	db, err := openPostgres(ctx, cfg, log)
	if err != nil {
		return err
	}
	return db.Close()
}
