package pagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"stock_screener/internal/feature/extraction/usecase"
)

// ErrTooLarge is returned when a page exceeds Config.MaxBytes.
var ErrTooLarge = errors.New("pagefetch: response too large")

// Fetcher はHTTP GETでページ本文を取得するDownloader実装です。
type Fetcher struct {
	cfg    Config
	client *http.Client
}

// FetcherがDownloaderを実装していることをコンパイル時に検証します。
var _ usecase.Downloader = (*Fetcher)(nil)

// NewFetcher は指定された設定とHTTPクライアントでFetcherの新しいインスタンスを生成します。
func NewFetcher(cfg Config, client *http.Client) *Fetcher {
	return &Fetcher{cfg: cfg, client: client}
}

// Fetch はurlの本文を返します。ステータス400以上とMaxBytes超過はエラーです。
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("pagefetch http %d: %s", res.StatusCode, url)
	}

	var body io.Reader = res.Body
	if f.cfg.MaxBytes > 0 {
		// 1バイト余分に読んで上限超過を検出する
		body = io.LimitReader(res.Body, f.cfg.MaxBytes+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if f.cfg.MaxBytes > 0 && int64(len(b)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, url)
	}
	return b, nil
}
