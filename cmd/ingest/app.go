package main

import (
	"context"
	"log"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_screener/internal/app/di"
	extractionusecase "stock_screener/internal/feature/extraction/usecase"
	symbollistusecase "stock_screener/internal/feature/symbollist/usecase"
	"stock_screener/internal/platform/cron"
	infradb "stock_screener/internal/platform/db"
	"stock_screener/internal/platform/externalapi/pagefetch"
	"stock_screener/internal/platform/externalapi/symbolfeed"
	infraredis "stock_screener/internal/platform/redis"
)

// app holds the components shared by the ingest subcommands.
type app struct {
	db       *gorm.DB
	rdb      *redisv9.Client
	schedule cron.Config
	imports  *extractionusecase.ImportUsecase
	symbols  *symbollistusecase.SymbolUsecase
	seeder   *extractionusecase.SeedUsecase
}

func newApp(ctx context.Context) (*app, error) {
	db := infradb.OpenDB(infradb.LoadConfigFromEnv())

	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return nil, err
	}
	rdb, err := infraredis.NewRedisClient(ctx, redisCfg)
	if err != nil {
		log.Println("[WARN] Redis unavailable. Cached histograms will not be invalidated.")
		rdb = nil
	}

	schedule, err := cron.LoadConfig()
	if err != nil {
		return nil, err
	}
	fetchCfg, err := pagefetch.LoadConfig()
	if err != nil {
		return nil, err
	}
	feedCfg, err := symbolfeed.LoadConfig()
	if err != nil {
		return nil, err
	}

	values := di.NewValueStore(rdb, db, schedule)
	return &app{
		db:       db,
		rdb:      rdb,
		schedule: schedule,
		imports:  di.NewImportUsecase(db, values, fetchCfg),
		symbols:  di.NewSymbolUsecase(db, feedCfg),
		seeder:   di.NewSeedUsecase(db),
	}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
