package usecase

import (
	"context"
	"fmt"

	"stock_screener/internal/domain/entity"
)

// HistoryRepository は履歴の読み取りを抽象化します。
type HistoryRepository interface {
	// ListHistory は履歴を日付の新しい順に返します。
	ListHistory(ctx context.Context, attributeValueID uint) ([]entity.ValueHistory, error)
}

// HistoryUsecase exposes the value history of one (company, attribute) pair.
type HistoryUsecase struct {
	catalog CatalogRepository
	values  ValueRepository
	history HistoryRepository
}

// NewHistoryUsecase creates a HistoryUsecase.
func NewHistoryUsecase(catalog CatalogRepository, values ValueRepository, history HistoryRepository) *HistoryUsecase {
	return &HistoryUsecase{catalog: catalog, values: values, history: history}
}

// History returns the recorded values of attributeID for the company listed
// under symbol, newest first. A pair that was never extracted has no history.
func (u *HistoryUsecase) History(ctx context.Context, symbol string, attributeID uint) ([]entity.ValueHistory, error) {
	companies, err := u.catalog.FindCompaniesBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, symbol)
	}
	attr, err := u.catalog.FindAttribute(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, fmt.Errorf("%w: %d", ErrAttributeNotFound, attributeID)
	}
	v, err := u.values.FindValue(ctx, attr.ID, companies[0].ID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []entity.ValueHistory{}, nil
	}
	return u.history.ListHistory(ctx, v.ID)
}
