// Package usecase runs compiled screener queries and shapes their results.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/search/domain/criteria"
)

// Match is one qualifying company and its match count.
type Match struct {
	CompanyID uint
	Count     int
}

// SearchRepository はスクリーニングクエリの実行と結果の組み立てに必要な読み取りを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SearchRepository interface {
	// MatchCompanies は q を実行し、並び順と件数上限を適用した結果を返します。
	MatchCompanies(ctx context.Context, q criteria.Query) ([]Match, error)
	// FindCompanies は ID で企業を返します（セクター付き、順不同）。
	FindCompanies(ctx context.Context, ids []uint) ([]entity.Company, error)
	// ListValues は companyIDs の全属性値を返します。
	ListValues(ctx context.Context, companyIDs []uint) ([]entity.AttributeValue, error)
	// ListAttributes はすべての属性を ID 順に返します。
	ListAttributes(ctx context.Context) ([]entity.Attribute, error)
	// FindAttributes は ID で属性を返します（順不同、存在しない ID は無視）。
	FindAttributes(ctx context.Context, ids []uint) ([]entity.Attribute, error)
	// AttributeBounds は属性の最小値と最大値を返します。値がない場合 ok=false です。
	AttributeBounds(ctx context.Context, attributeID uint) (lo, hi decimal.Decimal, ok bool, err error)
}

// ShowMode selects the result columns.
type ShowMode int

const (
	// ShowAll returns every known attribute as a column.
	ShowAll ShowMode = iota
	// ShowCriteriaOnly returns only the queried attributes, in criteria order.
	ShowCriteriaOnly
)

// ParseShowMode maps "all" and "criteria" to a ShowMode. The empty string means ShowAll.
func ParseShowMode(s string) (ShowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ShowAll, nil
	case "criteria":
		return ShowCriteriaOnly, nil
	default:
		return 0, fmt.Errorf("%w: show mode %q", ErrInvalidArgument, s)
	}
}

// ResultRow is one matching company with its values aligned to the result headers.
// A missing value is an invalid NullDecimal.
type ResultRow struct {
	Company entity.Company
	Matches int
	Values  []decimal.NullDecimal
}

// Result is the outcome of a search.
type Result struct {
	Headers []entity.Attribute
	Rows    []ResultRow
}

// Bounds is the observed value range of one attribute.
type Bounds struct {
	Attribute entity.Attribute
	Min       decimal.Decimal
	Max       decimal.Decimal
}

// Request is an uncompiled search.
type Request struct {
	Criteria []criteria.Criterion
	SectorID *uint
	Exchange *entity.Exchange
	Show     ShowMode
}

// SearchUsecase executes screener queries. It never writes.
type SearchUsecase struct {
	repo SearchRepository
}

// NewSearchUsecase creates a SearchUsecase.
func NewSearchUsecase(repo SearchRepository) *SearchUsecase {
	return &SearchUsecase{repo: repo}
}

// Search compiles and executes req.
func (u *SearchUsecase) Search(ctx context.Context, req Request) (Result, error) {
	q, err := criteria.Compile(req.Criteria, req.SectorID, req.Exchange)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return u.Execute(ctx, q, req.Show)
}

// Execute runs q and returns the headers for mode and one row per matching
// company, in the order the query produced them.
func (u *SearchUsecase) Execute(ctx context.Context, q criteria.Query, mode ShowMode) (Result, error) {
	matches, err := u.repo.MatchCompanies(ctx, q)
	if err != nil {
		return Result{}, err
	}

	headers, err := u.headers(ctx, q, mode)
	if err != nil {
		return Result{}, err
	}
	if len(matches) == 0 {
		return Result{Headers: headers, Rows: []ResultRow{}}, nil
	}

	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.CompanyID)
	}
	companies, err := u.repo.FindCompanies(ctx, ids)
	if err != nil {
		return Result{}, err
	}
	byID := make(map[uint]entity.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}

	values, err := u.repo.ListValues(ctx, ids)
	if err != nil {
		return Result{}, err
	}
	// company -> attribute -> value
	lookup := make(map[uint]map[uint]decimal.Decimal, len(ids))
	for _, v := range values {
		m, ok := lookup[v.CompanyID]
		if !ok {
			m = make(map[uint]decimal.Decimal)
			lookup[v.CompanyID] = m
		}
		m[v.AttributeID] = v.Value
	}

	rows := make([]ResultRow, 0, len(matches))
	for _, m := range matches {
		c, ok := byID[m.CompanyID]
		if !ok {
			continue
		}
		row := ResultRow{Company: c, Matches: m.Count, Values: make([]decimal.NullDecimal, len(headers))}
		for i, h := range headers {
			if v, ok := lookup[c.ID][h.ID]; ok {
				row.Values[i] = decimal.NewNullDecimal(v)
			}
		}
		rows = append(rows, row)
	}
	return Result{Headers: headers, Rows: rows}, nil
}

// headers returns every attribute, or the queried ones in criteria order.
func (u *SearchUsecase) headers(ctx context.Context, q criteria.Query, mode ShowMode) ([]entity.Attribute, error) {
	if mode == ShowAll {
		return u.repo.ListAttributes(ctx)
	}

	ids := q.AttributeIDs()
	found, err := u.repo.FindAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.Attribute, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	headers := make([]entity.Attribute, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrAttributeNotFound, id)
		}
		headers = append(headers, a)
	}
	return headers, nil
}

// ListAttributes returns every attribute that can be used as a criterion.
func (u *SearchUsecase) ListAttributes(ctx context.Context) ([]entity.Attribute, error) {
	return u.repo.ListAttributes(ctx)
}

// AttributeBounds returns the smallest and largest stored value of attributeID,
// used to suggest a range when a criterion is added.
func (u *SearchUsecase) AttributeBounds(ctx context.Context, attributeID uint) (Bounds, error) {
	attrs, err := u.repo.FindAttributes(ctx, []uint{attributeID})
	if err != nil {
		return Bounds{}, err
	}
	if len(attrs) == 0 {
		return Bounds{}, fmt.Errorf("%w: %d", ErrAttributeNotFound, attributeID)
	}
	lo, hi, ok, err := u.repo.AttributeBounds(ctx, attributeID)
	if err != nil {
		return Bounds{}, err
	}
	if !ok {
		return Bounds{}, fmt.Errorf("%w: attribute %d has no values", ErrInvalidArgument, attributeID)
	}
	return Bounds{Attribute: attrs[0], Min: lo, Max: hi}, nil
}
