package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/search/domain/criteria"
	"stock_screener/internal/feature/search/usecase"
)

type searchGorm struct {
	db *gorm.DB
}

var _ usecase.SearchRepository = (*searchGorm)(nil)

// NewSearchRepository はスクリーニング用のリポジトリを返します。
func NewSearchRepository(db *gorm.DB) *searchGorm {
	return &searchGorm{db: db}
}

// columns maps predicate fields to the joined value row.
var columns = map[criteria.Field]string{
	criteria.FieldAttribute: "v.attribute_id",
	criteria.FieldValue:     "v.value",
}

var ops = map[criteria.Op]bool{
	criteria.OpEq:  true,
	criteria.OpGte: true,
	criteria.OpLte: true,
}

// lower turns a predicate tree into a parenthesised SQL condition with placeholders.
func lower(e criteria.Expr) (string, []any, error) {
	switch n := e.(type) {
	case criteria.True:
		return "1=1", nil, nil
	case criteria.Cmp:
		col, ok := columns[n.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported field %s", n.Field)
		}
		if !ops[n.Op] {
			return "", nil, fmt.Errorf("unsupported operator %q", n.Op)
		}
		return col + " " + string(n.Op) + " ?", []any{n.Value}, nil
	case criteria.And:
		if len(n) == 0 {
			return "1=1", nil, nil
		}
		return join(n, " AND ")
	case criteria.Or:
		if len(n) == 0 {
			return "1=0", nil, nil
		}
		return join(n, " OR ")
	default:
		return "", nil, fmt.Errorf("unsupported expression %T", e)
	}
}

func join(children []criteria.Expr, sep string) (string, []any, error) {
	parts := make([]string, 0, len(children))
	var args []any
	for _, c := range children {
		sql, a, err := lower(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}

type matchRow struct {
	ID     uint
	Number int
}

// MatchCompanies counts, per company, the value rows satisfying q.Match and
// keeps the companies reaching q.MinMatches.
func (r *searchGorm) MatchCompanies(ctx context.Context, q criteria.Query) ([]usecase.Match, error) {
	match := q.Match
	if match == nil {
		match = criteria.True{}
	}
	cond, args, err := lower(match)
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).
		Table("companies AS c").
		Select("c.id AS id, COUNT(*) AS number").
		Joins("LEFT JOIN attribute_values v ON c.id = v.company_id").
		Where(cond, args...)
	if q.Filter.SectorID != nil {
		tx = tx.Where("c.sector_id = ?", *q.Filter.SectorID)
	}
	if q.Filter.Exchange != nil {
		tx = tx.Where("c.exchange = ?", string(*q.Filter.Exchange))
	}
	tx = tx.Group("c.id").
		Having("COUNT(*) >= ?", q.MinMatches).
		Order("number ASC, c.id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []matchRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]usecase.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, usecase.Match{CompanyID: row.ID, Count: row.Number})
	}
	return out, nil
}

func (r *searchGorm) FindCompanies(ctx context.Context, ids []uint) ([]entity.Company, error) {
	var out []entity.Company
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Preload("Sector").Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *searchGorm) ListValues(ctx context.Context, companyIDs []uint) ([]entity.AttributeValue, error) {
	var out []entity.AttributeValue
	if len(companyIDs) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("company_id IN ?", companyIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *searchGorm) ListAttributes(ctx context.Context) ([]entity.Attribute, error) {
	var out []entity.Attribute
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *searchGorm) FindAttributes(ctx context.Context, ids []uint) ([]entity.Attribute, error) {
	var out []entity.Attribute
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type boundsRow struct {
	Lo decimal.NullDecimal
	Hi decimal.NullDecimal
}

func (r *searchGorm) AttributeBounds(ctx context.Context, attributeID uint) (decimal.Decimal, decimal.Decimal, bool, error) {
	var b boundsRow
	if err := r.db.WithContext(ctx).
		Model(&entity.AttributeValue{}).
		Select("MIN(value) AS lo, MAX(value) AS hi").
		Where("attribute_id = ?", attributeID).
		Scan(&b).Error; err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, false, err
	}
	if !b.Lo.Valid || !b.Hi.Valid {
		return decimal.Decimal{}, decimal.Decimal{}, false, nil
	}
	return b.Lo.Decimal, b.Hi.Decimal, true, nil
}
