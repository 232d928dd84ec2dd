// Package handler はhistogramフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_screener/internal/api"
	"stock_screener/internal/feature/histogram/transport/http/dto"
	"stock_screener/internal/feature/histogram/usecase"
)

// HistogramUsecase は分布グラフのユースケースインターフェースです。
type HistogramUsecase interface {
	BuildBuckets(ctx context.Context, attributeID uint, bucketCount int) (usecase.Histogram, error)
	ChartURL(ctx context.Context, attributeID uint) (string, error)
}

// HistogramHandler は属性値の分布に関するHTTPリクエストを処理します。
type HistogramHandler struct {
	uc             HistogramUsecase
	defaultBuckets int
	errorImage     string
}

// NewHistogramHandler は新しい HistogramHandler を作成します。
// errorImage はグラフを作れなかった場合のリダイレクト先です。
func NewHistogramHandler(uc HistogramUsecase, defaultBuckets int, errorImage string) *HistogramHandler {
	return &HistogramHandler{uc: uc, defaultBuckets: defaultBuckets, errorImage: errorImage}
}

// Histogram は属性値のヒストグラムをJSONで返します。
//
// エンドポイント例:
// GET /attributes/:id/histogram?buckets=10
func (h *HistogramHandler) Histogram(c *gin.Context) {
	id, ok := attributeID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid attribute id"})
		return
	}
	buckets := h.defaultBuckets
	if s := c.Query("buckets"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n > usecase.MaxBuckets {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid buckets"})
			return
		}
		buckets = n
	}

	hist, err := h.uc.BuildBuckets(c.Request.Context(), id, buckets)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.HistogramResponse{
		AttributeID: hist.AttributeID,
		Low:         hist.Low,
		High:        hist.High,
		CountMin:    hist.CountMin,
		CountMax:    hist.CountMax,
		Buckets:     make([]dto.BucketItem, 0, len(hist.Buckets)),
	}
	for _, b := range hist.Buckets {
		out.Buckets = append(out.Buckets, dto.BucketItem{Lower: b.Lower, Upper: b.Upper, Count: b.Count})
	}
	c.JSON(http.StatusOK, out)
}

// DistributionGraph はグラフ画像のURLへリダイレクトします。
// グラフを作れない場合はエラー画像へリダイレクトします。
//
// エンドポイント例:
// GET /distrgraph/:id
func (h *HistogramHandler) DistributionGraph(c *gin.Context) {
	id, ok := attributeID(c)
	if !ok {
		c.Redirect(http.StatusFound, h.errorImage)
		return
	}
	url, err := h.uc.ChartURL(c.Request.Context(), id)
	if err != nil {
		slog.Warn("failed to build distribution graph", "attribute", id, "error", err)
		c.Redirect(http.StatusFound, h.errorImage)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func attributeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
