package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_screener/internal/app/di"
	"stock_screener/internal/app/router"
	extractionhandler "stock_screener/internal/feature/extraction/transport/handler"
	histogramhandler "stock_screener/internal/feature/histogram/transport/handler"
	searchhandler "stock_screener/internal/feature/search/transport/handler"
	symbollisthandler "stock_screener/internal/feature/symbollist/transport/handler"
	"stock_screener/internal/platform/chart"
	"stock_screener/internal/platform/cron"
	infradb "stock_screener/internal/platform/db"
	"stock_screener/internal/platform/externalapi/pagefetch"
	"stock_screener/internal/platform/externalapi/symbolfeed"
	"stock_screener/internal/platform/http/handler"
	infraredis "stock_screener/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	ctx := context.Background()

	// db
	db := infradb.OpenDB(infradb.LoadConfigFromEnv())
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Redis
	var rdb *redisv9.Client
	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	scheduleCfg, err := cron.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	chartCfg, err := chart.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	fetchCfg, err := pagefetch.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	feedCfg, err := symbolfeed.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Redisキャッシュでラップした値ストア（抽出の書き込みでキャッシュを無効化）
	values := di.NewValueStore(rdb, db, scheduleCfg)

	// Usecase
	symbolUC := di.NewSymbolUsecase(db, feedCfg)
	searchUC := di.NewSearchUsecase(db)
	histogramUC := di.NewHistogramUsecase(values, chartCfg)
	importUC := di.NewImportUsecase(db, values, fetchCfg)
	historyUC := di.NewHistoryUsecase(db, values)

	// Handler
	checks := map[string]handler.Check{"database": sqlDB.PingContext, "cache": nil}
	if rdb != nil {
		checks["cache"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	r := router.NewRouter(router.Handlers{
		Health:     handler.NewHealthHandler(checks),
		Symbol:     symbollisthandler.NewSymbolHandler(symbolUC),
		Search:     searchhandler.NewSearchHandler(searchUC),
		Histogram:  histogramhandler.NewHistogramHandler(histogramUC, chartCfg.Buckets, chartCfg.ErrorImage),
		Extraction: extractionhandler.NewExtractionHandler(importUC, historyUC),
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
