package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/domain/convert"
)

func testCompany() entity.Company {
	return entity.Company{ID: 1, Name: "Test A/S", Symbol: "TEST", ReutersSymbolGuess: "TEST.CO"}
}

func testAttribute() entity.Attribute {
	return entity.Attribute{
		ID:                7,
		Name:              "PERatio",
		URL:               "http://quotes.example.com/SYMBOL/overview",
		XMLPath:           "//title",
		ConvertExpression: "x",
	}
}

// pageDownloader returns body for every URL.
func pageDownloader(body *string) *mockDownloader {
	return &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
		return []byte(*body), nil
	}}
}

func TestPipeline_Extract_StoresValueAndHistory(t *testing.T) {
	t.Parallel()

	body := "123"
	values := newMemoryValues()
	p := NewPipeline(pageDownloader(&body), &mockQuery{}, values, nil)

	v, err := p.Extract(context.Background(), testCompany(), testAttribute())
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.True(t, decimal.NewFromInt(123).Equal(v.Value))
	assert.Equal(t, uint(7), v.AttributeID)
	assert.Equal(t, uint(1), v.CompanyID)
	assert.NotZero(t, v.ID)
	assert.Equal(t, 1, values.historyCount())
}

func TestPipeline_Extract_HistoryDeduplication(t *testing.T) {
	t.Parallel()

	body := "123"
	values := newMemoryValues()
	ctx := context.Background()

	steps := []struct {
		page        string
		wantHistory int
	}{
		{"123", 1},
		{"321", 2},
		{"321", 2}, // unchanged value never grows history
		{"456", 3},
		{"456.000", 3}, // numerically equal
	}

	for _, s := range steps {
		body = s.page
		// A fresh pipeline each time so the page cache does not hide the change.
		p := NewPipeline(pageDownloader(&body), &mockQuery{}, values, nil)
		_, err := p.Extract(ctx, testCompany(), testAttribute())
		require.NoError(t, err)
		assert.Equal(t, s.wantHistory, values.historyCount(), "after page %q", s.page)
	}

	stored, err := values.FindValue(ctx, 7, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(456).Equal(stored.Value))
	assert.Len(t, values.values, 1, "value row must be updated in place")
}

func TestPipeline_Extract_ReappendsWhenValueReturns(t *testing.T) {
	t.Parallel()

	body := ""
	values := newMemoryValues()
	for _, page := range []string{"1", "2", "1"} {
		body = page
		p := NewPipeline(pageDownloader(&body), &mockQuery{}, values, nil)
		_, err := p.Extract(context.Background(), testCompany(), testAttribute())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, values.historyCount())
}

func TestPipeline_Extract_SinglePageCache(t *testing.T) {
	t.Parallel()

	body := "10"
	dl := pageDownloader(&body)
	limiter := &countingLimiter{}
	p := NewPipeline(dl, &mockQuery{}, newMemoryValues(), limiter)
	ctx := context.Background()

	a1 := testAttribute()
	a2 := testAttribute()
	a2.ID = 8
	a3 := testAttribute()
	a3.ID = 9
	a3.URL = "http://quotes.example.com/SYMBOL/financials"

	for _, a := range []entity.Attribute{a1, a2, a3, a1} {
		_, err := p.Extract(ctx, testCompany(), a)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"http://quotes.example.com/TEST.CO/overview",
		"http://quotes.example.com/TEST.CO/financials",
		"http://quotes.example.com/TEST.CO/overview",
	}, dl.calls)
	assert.Equal(t, 3, limiter.waits, "cache hits must not consume rate limit")
}

func TestPipeline_Extract_UsesCorrectedSymbol(t *testing.T) {
	t.Parallel()

	body := "1"
	dl := pageDownloader(&body)
	p := NewPipeline(dl, &mockQuery{}, newMemoryValues(), nil)

	ok := "TEST-B.CO"
	c := testCompany()
	c.ReutersSymbolOK = &ok

	_, err := p.Extract(context.Background(), c, testAttribute())
	require.NoError(t, err)
	assert.Equal(t, []string{"http://quotes.example.com/TEST-B.CO/overview"}, dl.calls)
}

func TestPipeline_Extract_NoWrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		downloader *mockDownloader
		query      *mockQuery
		expression string
		wantErr    error
	}{
		{
			name: "download failure",
			downloader: &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
				return nil, errBoom
			}},
			query:      &mockQuery{},
			expression: "x",
			wantErr:    ErrFetch,
		},
		{
			name: "path not found",
			downloader: &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
				return []byte("<html></html>"), nil
			}},
			query: &mockQuery{findFn: func([]byte, string) (string, bool, error) {
				return "", false, nil
			}},
			expression: "x",
		},
		{
			name: "text does not convert",
			downloader: &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
				return []byte("n/a"), nil
			}},
			query:      &mockQuery{},
			expression: "x",
		},
		{
			name: "malformed expression",
			downloader: &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
				return []byte("12"), nil
			}},
			query:      &mockQuery{},
			expression: "x +",
			wantErr:    convert.ErrInvalidExpression,
		},
		{
			name: "malformed path",
			downloader: &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
				return []byte("12"), nil
			}},
			query: &mockQuery{findFn: func([]byte, string) (string, bool, error) {
				return "", false, errBoom
			}},
			expression: "x",
			wantErr:    errBoom,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values := newMemoryValues()
			p := NewPipeline(tt.downloader, tt.query, values, nil)
			attr := testAttribute()
			attr.ConvertExpression = tt.expression

			v, err := p.Extract(context.Background(), testCompany(), attr)

			assert.Nil(t, v)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Zero(t, values.saves)
			assert.Zero(t, values.historyCount())
		})
	}
}

func TestPipeline_Extract_FailedDownloadIsNotCached(t *testing.T) {
	t.Parallel()

	fail := true
	dl := &mockDownloader{fetchFn: func(context.Context, string) ([]byte, error) {
		if fail {
			return nil, errBoom
		}
		return []byte("5"), nil
	}}
	p := NewPipeline(dl, &mockQuery{}, newMemoryValues(), nil)

	_, err := p.Extract(context.Background(), testCompany(), testAttribute())
	require.ErrorIs(t, err, ErrFetch)

	fail = false
	v, err := p.Extract(context.Background(), testCompany(), testAttribute())
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Len(t, dl.calls, 2)
}

func TestPipeline_Extract_SaveErrorPropagates(t *testing.T) {
	t.Parallel()

	body := "5"
	values := newMemoryValues()
	values.saveErr = errBoom
	p := NewPipeline(pageDownloader(&body), &mockQuery{}, values, nil)

	v, err := p.Extract(context.Background(), testCompany(), testAttribute())
	assert.Nil(t, v)
	assert.ErrorIs(t, err, errBoom)
}

func TestPipeline_Extract_HistoryDateIsToday(t *testing.T) {
	t.Parallel()

	body := "5"
	values := newMemoryValues()
	p := NewPipeline(pageDownloader(&body), &mockQuery{}, values, nil)
	p.now = func() time.Time { return time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC) }

	v, err := p.Extract(context.Background(), testCompany(), testAttribute())
	require.NoError(t, err)

	hs, err := values.ListHistory(context.Background(), v.ID)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), hs[0].HistoricalDate)
	assert.True(t, decimal.NewFromInt(5).Equal(hs[0].HistoricalValue))
}
