package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	extractionhandler "stock_screener/internal/feature/extraction/transport/handler"
	histogramhandler "stock_screener/internal/feature/histogram/transport/handler"
	searchhandler "stock_screener/internal/feature/search/transport/handler"
	symbollisthandler "stock_screener/internal/feature/symbollist/transport/handler"
	"stock_screener/internal/platform/http/handler"
)

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(Handlers{
		Health:     handler.NewHealthHandler(nil),
		Symbol:     symbollisthandler.NewSymbolHandler(nil),
		Search:     searchhandler.NewSearchHandler(nil),
		Histogram:  histogramhandler.NewHistogramHandler(nil, 50, "/site_media/graph-error.png"),
		Extraction: extractionhandler.NewExtractionHandler(nil, nil),
	})

	got := map[string]bool{}
	for _, ri := range r.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"HEAD /healthz",
		"GET /symbols",
		"GET /sectors",
		"GET /attributes",
		"GET /attributes/:id/bounds",
		"GET /attributes/:id/histogram",
		"GET /distrgraph/:id",
		"POST /search",
		"POST /symbols/:symbol/extract",
		"GET /symbols/:symbol/attributes/:id/history",
	} {
		assert.True(t, got[want], "route %q should be registered", want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
