package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/search/domain/criteria"
)

// mockSearchRepository はSearchRepositoryのモック実装です。
type mockSearchRepository struct {
	attributes []entity.Attribute
	companies  []entity.Company
	values     []entity.AttributeValue

	matchFn  func(ctx context.Context, q criteria.Query) ([]Match, error)
	boundsFn func(ctx context.Context, attributeID uint) (decimal.Decimal, decimal.Decimal, bool, error)

	lastQuery criteria.Query
}

func (m *mockSearchRepository) MatchCompanies(ctx context.Context, q criteria.Query) ([]Match, error) {
	m.lastQuery = q
	if m.matchFn != nil {
		return m.matchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockSearchRepository) FindCompanies(_ context.Context, ids []uint) ([]entity.Company, error) {
	var out []entity.Company
	for _, c := range m.companies {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *mockSearchRepository) ListValues(_ context.Context, ids []uint) ([]entity.AttributeValue, error) {
	var out []entity.AttributeValue
	for _, v := range m.values {
		for _, id := range ids {
			if v.CompanyID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (m *mockSearchRepository) ListAttributes(context.Context) ([]entity.Attribute, error) {
	return m.attributes, nil
}

func (m *mockSearchRepository) FindAttributes(_ context.Context, ids []uint) ([]entity.Attribute, error) {
	var out []entity.Attribute
	// reverse order on purpose: callers must not rely on it
	for i := len(m.attributes) - 1; i >= 0; i-- {
		for _, id := range ids {
			if m.attributes[i].ID == id {
				out = append(out, m.attributes[i])
				break
			}
		}
	}
	return out, nil
}

func (m *mockSearchRepository) AttributeBounds(ctx context.Context, attributeID uint) (decimal.Decimal, decimal.Decimal, bool, error) {
	if m.boundsFn != nil {
		return m.boundsFn(ctx, attributeID)
	}
	return decimal.Decimal{}, decimal.Decimal{}, false, nil
}

func newRepo() *mockSearchRepository {
	return &mockSearchRepository{
		attributes: []entity.Attribute{{ID: 1, Name: "PE"}, {ID: 2, Name: "SharesOut"}, {ID: 3, Name: "Yield"}},
		companies:  []entity.Company{{ID: 10, Symbol: "AAA"}, {ID: 20, Symbol: "BBB"}},
		values: []entity.AttributeValue{
			{AttributeID: 1, CompanyID: 10, Value: decimal.NewFromInt(12)},
			{AttributeID: 3, CompanyID: 10, Value: decimal.NewFromInt(4)},
			{AttributeID: 2, CompanyID: 20, Value: decimal.NewFromInt(5000)},
		},
		matchFn: func(context.Context, criteria.Query) ([]Match, error) {
			return []Match{{CompanyID: 20, Count: 1}, {CompanyID: 10, Count: 2}}, nil
		},
	}
}

func names(attrs []entity.Attribute) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Name)
	}
	return out
}

func TestSearchUsecase_Execute_ShowAll(t *testing.T) {
	t.Parallel()

	uc := NewSearchUsecase(newRepo())
	q, err := criteria.Compile([]criteria.Criterion{{AttributeID: 3}}, nil, nil)
	require.NoError(t, err)

	res, err := uc.Execute(context.Background(), q, ShowAll)
	require.NoError(t, err)

	assert.Equal(t, []string{"PE", "SharesOut", "Yield"}, names(res.Headers))
	require.Len(t, res.Rows, 2)

	// query order is kept
	assert.Equal(t, "BBB", res.Rows[0].Company.Symbol)
	assert.Equal(t, 1, res.Rows[0].Matches)
	assert.False(t, res.Rows[0].Values[0].Valid)
	assert.True(t, res.Rows[0].Values[1].Valid)
	assert.True(t, decimal.NewFromInt(5000).Equal(res.Rows[0].Values[1].Decimal))
	assert.False(t, res.Rows[0].Values[2].Valid)

	assert.Equal(t, "AAA", res.Rows[1].Company.Symbol)
	assert.True(t, res.Rows[1].Values[0].Valid)
	assert.False(t, res.Rows[1].Values[1].Valid)
	assert.True(t, res.Rows[1].Values[2].Valid)
}

func TestSearchUsecase_Execute_CriteriaOnly(t *testing.T) {
	t.Parallel()

	uc := NewSearchUsecase(newRepo())
	q, err := criteria.Compile([]criteria.Criterion{{AttributeID: 3}, {AttributeID: 1}}, nil, nil)
	require.NoError(t, err)

	res, err := uc.Execute(context.Background(), q, ShowCriteriaOnly)
	require.NoError(t, err)

	assert.Equal(t, []string{"Yield", "PE"}, names(res.Headers), "criteria order, nothing else")
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.Len(t, row.Values, 2)
	}
	aaa := res.Rows[1]
	assert.True(t, decimal.NewFromInt(4).Equal(aaa.Values[0].Decimal))
	assert.True(t, decimal.NewFromInt(12).Equal(aaa.Values[1].Decimal))
}

func TestSearchUsecase_Execute_CriteriaOnlyUnknownAttribute(t *testing.T) {
	t.Parallel()

	uc := NewSearchUsecase(newRepo())
	q, err := criteria.Compile([]criteria.Criterion{{AttributeID: 42}}, nil, nil)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), q, ShowCriteriaOnly)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestSearchUsecase_Execute_NoMatches(t *testing.T) {
	t.Parallel()

	repo := newRepo()
	repo.matchFn = nil
	uc := NewSearchUsecase(repo)

	res, err := uc.Execute(context.Background(), criteria.Query{Match: criteria.True{}}, ShowAll)
	require.NoError(t, err)
	assert.Len(t, res.Headers, 3)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestSearchUsecase_Execute_RepositoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	repo := newRepo()
	repo.matchFn = func(context.Context, criteria.Query) ([]Match, error) { return nil, boom }

	_, err := NewSearchUsecase(repo).Execute(context.Background(), criteria.Query{}, ShowAll)
	assert.ErrorIs(t, err, boom)
}

func TestSearchUsecase_Search(t *testing.T) {
	t.Parallel()

	repo := newRepo()
	uc := NewSearchUsecase(repo)
	sector := uint(7)
	ex := entity.ExchangeStockholm

	_, err := uc.Search(context.Background(), Request{
		Criteria: []criteria.Criterion{{AttributeID: 1}, {AttributeID: 2}},
		SectorID: &sector,
		Exchange: &ex,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lastQuery.MinMatches)
	assert.Equal(t, criteria.ResultLimit, repo.lastQuery.Limit)
	assert.Equal(t, &sector, repo.lastQuery.Filter.SectorID)

	bad := entity.Exchange("NYSE")
	_, err = uc.Search(context.Background(), Request{Exchange: &bad})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, criteria.ErrInvalidExchange)
}

func TestParseShowMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ShowMode
		wantErr bool
	}{
		{in: "", want: ShowAll},
		{in: "all", want: ShowAll},
		{in: "Criteria", want: ShowCriteriaOnly},
		{in: "some", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseShowMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidArgument, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSearchUsecase_AttributeBounds(t *testing.T) {
	t.Parallel()

	repo := newRepo()
	repo.boundsFn = func(_ context.Context, id uint) (decimal.Decimal, decimal.Decimal, bool, error) {
		if id == 1 {
			return decimal.RequireFromString("10.1"), decimal.RequireFromString("15.2"), true, nil
		}
		return decimal.Decimal{}, decimal.Decimal{}, false, nil
	}
	uc := NewSearchUsecase(repo)
	ctx := context.Background()

	b, err := uc.AttributeBounds(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "PE", b.Attribute.Name)
	assert.Equal(t, "10.1", b.Min.String())
	assert.Equal(t, "15.2", b.Max.String())

	_, err = uc.AttributeBounds(ctx, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = uc.AttributeBounds(ctx, 99)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}
