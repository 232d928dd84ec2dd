// Package criteria compiles min/max search criteria into a storage-neutral
// query: a predicate tree over attribute value rows plus the match-count
// threshold and company filters the storage adapter must apply.
package criteria

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"stock_screener/internal/domain/entity"
)

// ResultLimit caps the number of companies a search returns.
const ResultLimit = 25

var (
	// ErrInvalidCriterion is returned for a criterion without an attribute.
	ErrInvalidCriterion = errors.New("invalid criterion")
	// ErrInvalidExchange is returned when the exchange filter is not a known exchange.
	ErrInvalidExchange = errors.New("invalid exchange")
)

// Criterion restricts one attribute to [Min, Max]. A nil bound is open.
type Criterion struct {
	AttributeID uint
	Min         *decimal.Decimal
	Max         *decimal.Decimal
}

// Filter narrows the candidate companies. Filters never count as matches.
type Filter struct {
	SectorID *uint
	Exchange *entity.Exchange
}

// Query is the compiled form of a search.
//
// A company qualifies when at least MinMatches of its value rows satisfy
// Match. Results are ordered by ascending match count, then company id,
// and capped at Limit.
type Query struct {
	Criteria   []Criterion
	Match      Expr
	MinMatches int
	Filter     Filter
	Limit      int
}

// Compile builds the query for criteria and the optional sector and exchange filters.
//
// Each criterion becomes attribute = id [AND value >= min] [AND value <= max];
// the criteria are OR-ed and every criterion adds one to the required match
// count. With no criteria every company qualifies.
func Compile(criteria []Criterion, sectorID *uint, exchange *entity.Exchange) (Query, error) {
	if exchange != nil && !exchange.Valid() {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidExchange, *exchange)
	}

	q := Query{
		Criteria:   criteria,
		MinMatches: len(criteria),
		Filter:     Filter{SectorID: sectorID, Exchange: exchange},
		Limit:      ResultLimit,
	}
	if len(criteria) == 0 {
		q.Match = True{}
		return q, nil
	}

	preds := make(Or, 0, len(criteria))
	for i, c := range criteria {
		p, err := c.predicate()
		if err != nil {
			return Query{}, fmt.Errorf("criterion %d: %w", i, err)
		}
		preds = append(preds, p)
	}
	q.Match = preds
	return q, nil
}

func (c Criterion) predicate() (Expr, error) {
	if c.AttributeID == 0 {
		return nil, fmt.Errorf("%w: missing attribute", ErrInvalidCriterion)
	}
	p := And{Cmp{Field: FieldAttribute, Op: OpEq, Value: c.AttributeID}}
	if c.Min != nil {
		p = append(p, Cmp{Field: FieldValue, Op: OpGte, Value: *c.Min})
	}
	if c.Max != nil {
		p = append(p, Cmp{Field: FieldValue, Op: OpLte, Value: *c.Max})
	}
	return p, nil
}

// AttributeIDs returns the attribute of every criterion, in criteria order.
func (q Query) AttributeIDs() []uint {
	ids := make([]uint, 0, len(q.Criteria))
	for _, c := range q.Criteria {
		ids = append(ids, c.AttributeID)
	}
	return ids
}
