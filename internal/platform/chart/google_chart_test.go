package chart

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_screener/internal/feature/histogram/usecase"
)

func TestGoogleChart_URL(t *testing.T) {
	t.Parallel()

	g := NewGoogleChart(Config{BaseURL: "http://chart.apis.google.com/chart", Width: 220, Height: 75})
	h := usecase.Histogram{
		Low:  decimal.NewFromInt(0),
		High: decimal.RequireFromString("9000.00000"),
		Buckets: []usecase.Bucket{
			{Count: 3}, {Count: 0}, {Count: 7},
		},
		CountMin: 0,
		CountMax: 7,
	}

	got := g.URL(h)

	want := "http://chart.apis.google.com/chart?chs=220x75&cht=lc&chxt=x%2Cy" +
		"&chxl=0%3A%7C0%7C9000%7C1%3A%7C0%7C7" +
		"&chf=c%2Clg%2C90%2C76A4FB%2C0.5%2Cffffff%2C0%7Cbg%2Cs%2CEFEFEF" +
		"&chd=t%3A3%2C0%2C7&chds=0%2C7"
	assert.Equal(t, want, got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "chart.apis.google.com", u.Host)

	q := u.Query()
	assert.Equal(t, "x,y", q.Get("chxt"))
	assert.Equal(t, "0:|0|9000|1:|0|7", q.Get("chxl"))
	assert.Equal(t, fill, q.Get("chf"))
	assert.Equal(t, "t:3,0,7", q.Get("chd"))
	assert.Equal(t, "0,7", q.Get("chds"))
}

func TestGoogleChart_URL_EscapesValues(t *testing.T) {
	t.Parallel()

	g := NewGoogleChart(Config{BaseURL: "http://chart.test/chart", Width: 10, Height: 10})
	h := usecase.Histogram{
		Low:      decimal.RequireFromString("-1.5"),
		High:     decimal.RequireFromString("2.25"),
		Buckets:  []usecase.Bucket{{Count: 1}},
		CountMin: 1,
		CountMax: 1,
	}

	u, err := url.Parse(g.URL(h))
	require.NoError(t, err)
	assert.Equal(t, "0:|-1.5|2.25|1:|1|1", u.Query().Get("chxl"))
	assert.NotContains(t, u.RawQuery, "|")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://chart.apis.google.com/chart", cfg.BaseURL)
	assert.Equal(t, 220, cfg.Width)
	assert.Equal(t, 75, cfg.Height)
	assert.Equal(t, 50, cfg.Buckets)
	assert.Equal(t, "/site_media/graph-error.png", cfg.ErrorImage)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("CHART_WIDTH", "300")
	t.Setenv("CHART_BUCKETS", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 20, cfg.Buckets)
}
