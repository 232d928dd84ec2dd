package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock_screener/internal/api"
	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/symbollist/transport/http/dto"
	"stock_screener/internal/feature/symbollist/usecase"

	"github.com/gin-gonic/gin"
)

// SymbolUsecase は会社ディレクトリに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListCompanies(ctx context.Context, filter usecase.CompanyFilter) ([]entity.Company, error)
	ListSectors(ctx context.Context) ([]entity.Sector, error)
}

// SymbolHandler は会社とセクターに関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は会社の一覧を取得するAPIです。
// クエリパラメータ sector（セクターID）と exchange（取引所コード）で絞り込めます。
// パラメータが不正な場合は400、Usecaseでエラーが発生した場合は500を返します。
func (h *SymbolHandler) List(c *gin.Context) {
	var filter usecase.CompanyFilter
	if s := c.Query("sector"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid sector"})
			return
		}
		sectorID := uint(id)
		filter.SectorID = &sectorID
	}
	if e := c.Query("exchange"); e != "" {
		exchange := entity.Exchange(strings.ToUpper(e))
		filter.Exchange = &exchange
	}

	companies, err := h.uc.ListCompanies(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidExchange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.CompanyItem, 0, len(companies))
	for _, co := range companies {
		out = append(out, dto.CompanyItem{
			ID:            co.ID,
			Name:          co.Name,
			Symbol:        co.Symbol,
			Currency:      co.Currency,
			Exchange:      string(co.Exchange),
			Size:          string(co.Size),
			Sector:        co.Sector.Name,
			ISIN:          co.ISIN,
			ReutersSymbol: co.EffectiveSymbol(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Sectors はセクターの一覧を取得するAPIです。
func (h *SymbolHandler) Sectors(c *gin.Context) {
	sectors, err := h.uc.ListSectors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.SectorItem, 0, len(sectors))
	for _, s := range sectors {
		out = append(out, dto.SectorItem{ID: s.ID, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}
