package symbolfeed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"stock_screener/internal/feature/symbollist/usecase"
	"stock_screener/internal/platform/externalapi/symbolfeed/dto"
)

// Client はディレクトリフィードから会社一覧を取得するDirectoryFeed実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがDirectoryFeedを実装していることをコンパイル時に検証します。
var _ usecase.DirectoryFeed = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// FetchCompanies はフィードをダウンロードし、各<company>要素をトリムした文字列で返します。
func (c *Client) FetchCompanies(ctx context.Context) ([]usecase.DirectoryRecord, error) {
	if c.cfg.URL == "" {
		return nil, errors.New("symbolfeed: SYMBOL_FEED_URL is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.User != "" {
		req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("symbolfeed http %d", res.StatusCode)
	}

	var doc dto.CompaniesDocument
	if err := xml.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("symbolfeed: decode: %w", err)
	}

	records := make([]usecase.DirectoryRecord, 0, len(doc.Companies))
	for _, co := range doc.Companies {
		records = append(records, usecase.DirectoryRecord{
			Name:               strings.TrimSpace(co.Name),
			Currency:           strings.TrimSpace(co.Currency),
			Exchange:           strings.TrimSpace(co.Exchange),
			Size:               strings.TrimSpace(co.Size),
			Sector:             strings.TrimSpace(co.Sector),
			Symbol:             strings.TrimSpace(co.Symbol),
			ISIN:               strings.TrimSpace(co.ISIN),
			ReutersSymbolGuess: strings.TrimSpace(co.ReutersSymbolGuess),
		})
	}
	return records, nil
}
