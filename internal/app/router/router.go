package router

import (
	extractionhandler "stock_screener/internal/feature/extraction/transport/handler"
	histogramhandler "stock_screener/internal/feature/histogram/transport/handler"
	searchhandler "stock_screener/internal/feature/search/transport/handler"
	symbollisthandler "stock_screener/internal/feature/symbollist/transport/handler"
	"stock_screener/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// Handlers はルーターに登録するハンドラーの集合です。
type Handlers struct {
	Health     *handler.HealthHandler
	Symbol     *symbollisthandler.SymbolHandler
	Search     *searchhandler.SearchHandler
	Histogram  *histogramhandler.HistogramHandler
	Extraction *extractionhandler.ExtractionHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	// 会社ディレクトリ
	r.GET("/symbols", h.Symbol.List)
	r.GET("/sectors", h.Symbol.Sectors)

	// 属性カタログと検索
	r.GET("/attributes", h.Search.ListAttributes)
	r.GET("/attributes/:id/bounds", h.Search.AttributeBounds)
	r.POST("/search", h.Search.Search)

	// 分布
	r.GET("/attributes/:id/histogram", h.Histogram.Histogram)
	r.GET("/distrgraph/:id", h.Histogram.DistributionGraph)

	// 抽出の手動実行と履歴
	r.POST("/symbols/:symbol/extract", h.Extraction.Extract)
	r.GET("/symbols/:symbol/attributes/:id/history", h.Extraction.History)

	return r
}
