// Package di provides dependency injection factories for creating application components.
package di

import (
	"gorm.io/gorm"

	symbollistadapters "stock_screener/internal/feature/symbollist/adapters"
	symbollistusecase "stock_screener/internal/feature/symbollist/usecase"
	"stock_screener/internal/platform/externalapi/symbolfeed"
	infrahttp "stock_screener/internal/platform/http"
)

// NewSymbolUsecase creates the company directory usecase backed by the
// database and the directory feed.
func NewSymbolUsecase(db *gorm.DB, cfg symbolfeed.Config) *symbollistusecase.SymbolUsecase {
	feed := symbolfeed.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	return symbollistusecase.NewSymbolUsecase(symbollistadapters.NewCompanyRepository(db), feed)
}
