package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/domain/convert"
	"stock_screener/internal/shared/ratelimiter"
)

// Downloader は URL からページ本文を取得するインターフェースです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Downloader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DocumentQuery はダウンロードしたページからパスで指定したテキストを取り出します。
// 見つからない場合は ok=false を返します。
type DocumentQuery interface {
	FindText(document []byte, path string) (text string, ok bool, err error)
}

// ValueRepository は属性値と履歴の永続化レイヤーを抽象化します。
type ValueRepository interface {
	// FindValue は (attribute, company) の現在値を返します。存在しない場合は nil を返します。
	FindValue(ctx context.Context, attributeID, companyID uint) (*entity.AttributeValue, error)
	// LatestHistory は最新の履歴エントリを返します。存在しない場合は nil を返します。
	LatestHistory(ctx context.Context, attributeValueID uint) (*entity.ValueHistory, error)
	// Save は値を upsert し、history が nil でなければ同一トランザクションで追記します。
	Save(ctx context.Context, value *entity.AttributeValue, history *entity.ValueHistory) error
}

// cachedPage is the single-slot page cache of one Pipeline.
type cachedPage struct {
	url      string
	document []byte
	ok       bool
}

// Pipeline extracts one attribute value for one company at a time.
//
// A Pipeline remembers the last page it downloaded and reuses it when the next
// extraction targets the same URL. It is not safe for concurrent use; give each
// goroutine its own Pipeline.
type Pipeline struct {
	downloader  Downloader
	query       DocumentQuery
	values      ValueRepository
	rateLimiter ratelimiter.RateLimiterInterface
	now         func() time.Time

	last cachedPage
}

// NewPipeline は新しい Pipeline を作成します。rateLimiter が nil の場合は待機しません。
func NewPipeline(downloader Downloader, query DocumentQuery, values ValueRepository, rateLimiter ratelimiter.RateLimiterInterface) *Pipeline {
	return &Pipeline{
		downloader:  downloader,
		query:       query,
		values:      values,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

// Extract fetches, converts and stores the value of attr for company.
//
// It returns (nil, nil) when the path matches nothing or the text does not
// convert to a number; stored state is left untouched in that case.
// Download failures are wrapped in ErrFetch.
func (p *Pipeline) Extract(ctx context.Context, company entity.Company, attr entity.Attribute) (*entity.AttributeValue, error) {
	url := attr.SourceURL(company.EffectiveSymbol())

	document, err := p.document(ctx, url)
	if err != nil {
		return nil, err
	}

	text, ok, err := p.query.FindText(document, attr.XMLPath)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
	}
	if !ok {
		return nil, nil
	}

	converted, err := convert.Convert(text, attr.ConvertExpression)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
	}
	if !converted.Valid {
		slog.Debug("value did not convert", "symbol", company.Symbol, "attribute", attr.Name, "text", text)
		return nil, nil
	}

	return p.store(ctx, company, attr, converted.Decimal.Round(entity.ValueScale))
}

// document returns the page at url, from the single-slot cache when possible.
func (p *Pipeline) document(ctx context.Context, url string) ([]byte, error) {
	if p.last.ok && p.last.url == url {
		return p.last.document, nil
	}
	if p.rateLimiter != nil {
		p.rateLimiter.WaitIfNeeded()
	}
	document, err := p.downloader.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	p.last = cachedPage{url: url, document: document, ok: true}
	return document, nil
}

// store upserts the current value and appends history only when the value changed.
// v must already be rounded to the stored scale so it compares equal to what was saved before.
func (p *Pipeline) store(ctx context.Context, company entity.Company, attr entity.Attribute, v decimal.Decimal) (*entity.AttributeValue, error) {
	current, err := p.values.FindValue(ctx, attr.ID, company.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &entity.AttributeValue{AttributeID: attr.ID, CompanyID: company.ID}
	}
	updated := *current
	updated.Value = v

	var history *entity.ValueHistory
	latest, err := p.latestHistory(ctx, current)
	if err != nil {
		return nil, err
	}
	if latest == nil || !latest.HistoricalValue.Equal(v) {
		today := p.now()
		history = &entity.ValueHistory{
			HistoricalValue: v,
			HistoricalDate:  time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		}
	}

	if err := p.values.Save(ctx, &updated, history); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (p *Pipeline) latestHistory(ctx context.Context, current *entity.AttributeValue) (*entity.ValueHistory, error) {
	if current.ID == 0 {
		return nil, nil
	}
	return p.values.LatestHistory(ctx, current.ID)
}
