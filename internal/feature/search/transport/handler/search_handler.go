// Package handler はsearchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock_screener/internal/api"
	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/search/domain/criteria"
	"stock_screener/internal/feature/search/transport/http/dto"
	"stock_screener/internal/feature/search/usecase"
)

// SearchUsecase はスクリーニング検索のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SearchUsecase interface {
	Search(ctx context.Context, req usecase.Request) (usecase.Result, error)
	ListAttributes(ctx context.Context) ([]entity.Attribute, error)
	AttributeBounds(ctx context.Context, attributeID uint) (usecase.Bounds, error)
}

// SearchHandler は検索と属性カタログのHTTPリクエストを処理します。
type SearchHandler struct {
	uc SearchUsecase
}

// NewSearchHandler は新しい SearchHandler を作成します。
func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search は条件に一致する企業を返します。
//
// エンドポイント例:
// POST /search {"criteria":[{"attribute_id":1,"min":"10"}],"exchange":"STO","show":"criteria"}
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	show, err := usecase.ParseShowMode(req.Show)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	in := usecase.Request{SectorID: req.SectorID, Show: show}
	if ex := strings.TrimSpace(req.Exchange); ex != "" {
		e := entity.Exchange(strings.ToUpper(ex))
		in.Exchange = &e
	}
	for _, cr := range req.Criteria {
		in.Criteria = append(in.Criteria, criteria.Criterion{AttributeID: cr.AttributeID, Min: cr.Min, Max: cr.Max})
	}

	res, err := h.uc.Search(c.Request.Context(), in)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.SearchResponse{
		Headers: make([]dto.HeaderItem, 0, len(res.Headers)),
		Results: make([]dto.ResultItem, 0, len(res.Rows)),
	}
	for _, a := range res.Headers {
		out.Headers = append(out.Headers, dto.HeaderItem{ID: a.ID, Name: a.Name})
	}
	for _, row := range res.Rows {
		item := dto.ResultItem{
			Symbol:   row.Company.Symbol,
			Name:     row.Company.Name,
			Sector:   row.Company.Sector.Name,
			Exchange: string(row.Company.Exchange),
			Matches:  row.Matches,
			Values:   make([]*decimal.Decimal, len(row.Values)),
		}
		for i, v := range row.Values {
			if v.Valid {
				d := v.Decimal
				item.Values[i] = &d
			}
		}
		out.Results = append(out.Results, item)
	}
	c.JSON(http.StatusOK, out)
}

// ListAttributes はすべての属性を返します。
// GET /attributes
func (h *SearchHandler) ListAttributes(c *gin.Context) {
	attrs, err := h.uc.ListAttributes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]api.AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, api.AttributeResponse{
			Id:                a.ID,
			Name:              a.Name,
			Url:               a.URL,
			XmlPath:           a.XMLPath,
			ConvertExpression: a.ConvertExpression,
		})
	}
	c.JSON(http.StatusOK, out)
}

// AttributeBounds は属性の最小値と最大値を返します。
// GET /attributes/:id/bounds
func (h *SearchHandler) AttributeBounds(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid attribute id"})
		return
	}
	b, err := h.uc.AttributeBounds(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.BoundsResponse{
		AttributeID: b.Attribute.ID,
		Name:        b.Attribute.Name,
		Min:         b.Min,
		Max:         b.Max,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrAttributeNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
