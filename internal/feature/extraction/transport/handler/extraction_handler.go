// Package handler はextractionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"stock_screener/internal/api"
	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/usecase"
)

// ImportUsecase は単一銘柄の抽出を実行します。
type ImportUsecase interface {
	ImportOne(ctx context.Context, symbol string) (usecase.ImportReport, error)
}

// HistoryUsecase は属性値の履歴を返します。
type HistoryUsecase interface {
	History(ctx context.Context, symbol string, attributeID uint) ([]entity.ValueHistory, error)
}

// ExtractionHandler は抽出の手動実行と履歴参照のHTTPリクエストを処理します。
type ExtractionHandler struct {
	importer ImportUsecase
	history  HistoryUsecase
}

// NewExtractionHandler は新しい ExtractionHandler を作成します。
func NewExtractionHandler(importer ImportUsecase, history HistoryUsecase) *ExtractionHandler {
	return &ExtractionHandler{importer: importer, history: history}
}

// Extract は指定シンボルの全属性を抽出し、集計結果を返します。
//
// エンドポイント例: POST /symbols/VOLV%20B/extract
func (h *ExtractionHandler) Extract(c *gin.Context) {
	report, err := h.importer.ImportOne(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.ImportReportResponse{
		Extracted: report.Extracted,
		Missed:    report.Missed,
		Failed:    report.Failed,
	})
}

// History は (銘柄, 属性) の値履歴を新しい順に返します。
//
// エンドポイント例: GET /symbols/VOLV%20B/attributes/3/history
func (h *ExtractionHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid attribute id"})
		return
	}
	symbol := c.Param("symbol")

	entries, err := h.history.History(c.Request.Context(), symbol, uint(id))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	out := api.HistoryResponse{
		Symbol:      symbol,
		AttributeId: uint(id),
		History:     make([]api.HistoryEntry, 0, len(entries)),
	}
	for _, e := range entries {
		out.History = append(out.History, api.HistoryEntry{
			Date:  openapi_types.Date{Time: e.HistoricalDate},
			Value: e.HistoricalValue,
		})
	}
	c.JSON(http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrCompanyNotFound), errors.Is(err, usecase.ErrAttributeNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
