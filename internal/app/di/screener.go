package di

import (
	"gorm.io/gorm"

	histogramusecase "stock_screener/internal/feature/histogram/usecase"
	searchadapters "stock_screener/internal/feature/search/adapters"
	searchusecase "stock_screener/internal/feature/search/usecase"
	"stock_screener/internal/platform/chart"
)

// NewSearchUsecase creates the criteria search usecase.
func NewSearchUsecase(db *gorm.DB) *searchusecase.SearchUsecase {
	return searchusecase.NewSearchUsecase(searchadapters.NewSearchRepository(db))
}

// NewHistogramUsecase creates the histogram usecase rendering through Google Chart URLs.
func NewHistogramUsecase(values histogramusecase.ValueReader, cfg chart.Config) *histogramusecase.HistogramUsecase {
	return histogramusecase.NewHistogramUsecase(values, chart.NewGoogleChart(cfg), cfg.Buckets)
}
