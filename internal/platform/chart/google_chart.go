// Package chart renders histograms as Google Image Chart URLs.
package chart

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"stock_screener/internal/feature/histogram/usecase"
)

// Config はグラフ描画の設定です。
type Config struct {
	BaseURL    string `env:"CHART_BASE_URL" envDefault:"http://chart.apis.google.com/chart"`
	Width      int    `env:"CHART_WIDTH" envDefault:"220"`
	Height     int    `env:"CHART_HEIGHT" envDefault:"75"`
	Buckets    int    `env:"CHART_BUCKETS" envDefault:"50"`
	ErrorImage string `env:"CHART_ERROR_IMAGE" envDefault:"/site_media/graph-error.png"`
}

// LoadConfig は環境変数からグラフ設定を読み込みます。
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

// fill is a vertical gradient plot area on a light grey background.
const fill = "c,lg,90,76A4FB,0.5,ffffff,0|bg,s,EFEFEF"

// GoogleChart draws a histogram as a line chart.
type GoogleChart struct {
	baseURL       string
	width, height int
}

var _ usecase.ChartRenderer = (*GoogleChart)(nil)

// NewGoogleChart creates a renderer producing width x height charts.
func NewGoogleChart(cfg Config) *GoogleChart {
	return &GoogleChart{baseURL: cfg.BaseURL, width: cfg.Width, height: cfg.Height}
}

// URL returns the chart URL for h. The x axis is labelled with the value
// range and the y axis with the bucket count range.
func (g *GoogleChart) URL(h usecase.Histogram) string {
	counts := make([]string, 0, len(h.Buckets))
	for _, c := range h.Counts() {
		counts = append(counts, strconv.Itoa(c))
	}
	yMin, yMax := strconv.Itoa(h.CountMin), strconv.Itoa(h.CountMax)

	// url.Values.Encode はキーをソートするため、順序を保って自前で組み立てる
	params := [][2]string{
		{"chs", fmt.Sprintf("%dx%d", g.width, g.height)},
		{"cht", "lc"},
		{"chxt", "x,y"},
		{"chxl", "0:|" + h.Low.String() + "|" + h.High.String() + "|1:|" + yMin + "|" + yMax},
		{"chf", fill},
		{"chd", "t:" + strings.Join(counts, ",")},
		{"chds", yMin + "," + yMax},
	}
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, p[0]+"="+url.QueryEscape(p[1]))
	}
	return g.baseURL + "?" + strings.Join(pairs, "&")
}
