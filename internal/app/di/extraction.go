package di

import (
	"gorm.io/gorm"

	extractionadapters "stock_screener/internal/feature/extraction/adapters"
	"stock_screener/internal/feature/extraction/adapters/xpath"
	extractionusecase "stock_screener/internal/feature/extraction/usecase"
	"stock_screener/internal/platform/externalapi/pagefetch"
	infrahttp "stock_screener/internal/platform/http"
	"stock_screener/internal/shared/ratelimiter"
)

// NewImportUsecase wires the extraction pipeline: page downloads over HTTP,
// XPath lookups, throttling, and writes through values.
// Each batch gets its own pipeline so the page cache never crosses batches.
func NewImportUsecase(db *gorm.DB, values extractionusecase.ValueRepository, cfg pagefetch.Config) *extractionusecase.ImportUsecase {
	fetcher := pagefetch.NewFetcher(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	query := xpath.NewQuery()
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, cfg.RateInterval)

	return extractionusecase.NewImportUsecase(
		extractionadapters.NewCatalogRepository(db),
		func() extractionusecase.Extractor {
			return extractionusecase.NewPipeline(fetcher, query, values, limiter)
		},
	)
}

// NewHistoryUsecase wires the value history reader.
func NewHistoryUsecase(db *gorm.DB, values extractionusecase.ValueRepository) *extractionusecase.HistoryUsecase {
	return extractionusecase.NewHistoryUsecase(
		extractionadapters.NewCatalogRepository(db),
		values,
		extractionadapters.NewValueRepository(db),
	)
}

// NewSeedUsecase wires the attribute seeder.
func NewSeedUsecase(db *gorm.DB) *extractionusecase.SeedUsecase {
	return extractionusecase.NewSeedUsecase(extractionadapters.NewCatalogRepository(db))
}
