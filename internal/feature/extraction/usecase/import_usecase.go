package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stock_screener/internal/domain/entity"
)

// CatalogRepository は抽出対象の属性と企業を読み取るリポジトリです。
type CatalogRepository interface {
	// ListAttributes はすべての属性を ID 順に返します。
	ListAttributes(ctx context.Context) ([]entity.Attribute, error)
	// ListCompanies は企業を ID 順に最大 limit 件返します。limit が 0 の場合は全件です。
	ListCompanies(ctx context.Context, limit int) ([]entity.Company, error)
	// FindCompaniesBySymbol は上場シンボルが一致する企業を返します。
	FindCompaniesBySymbol(ctx context.Context, symbol string) ([]entity.Company, error)
	// FindAttribute は ID で属性を返します。存在しない場合は nil を返します。
	FindAttribute(ctx context.Context, id uint) (*entity.Attribute, error)
}

// Extractor extracts a single (company, attribute) pair. *Pipeline implements it.
type Extractor interface {
	Extract(ctx context.Context, company entity.Company, attr entity.Attribute) (*entity.AttributeValue, error)
}

// ImportReport は一括取り込みの結果を集計します。
type ImportReport struct {
	Extracted int `json:"extracted"` // 値を保存できた件数
	Missed    int `json:"missed"`    // パス不一致または変換不能で保存しなかった件数
	Failed    int `json:"failed"`    // ダウンロード等のエラー件数
}

// ImportUsecase runs the pipeline over many (company, attribute) pairs sequentially.
// A failure on one pair is logged and counted; earlier writes stay committed.
type ImportUsecase struct {
	catalog      CatalogRepository
	newExtractor func() Extractor
}

// NewImportUsecase creates an ImportUsecase. newExtractor is called once per
// batch so every batch gets a fresh page cache.
func NewImportUsecase(catalog CatalogRepository, newExtractor func() Extractor) *ImportUsecase {
	return &ImportUsecase{catalog: catalog, newExtractor: newExtractor}
}

// ImportAll extracts every attribute for the first limit companies (0 means all).
func (u *ImportUsecase) ImportAll(ctx context.Context, limit int) (ImportReport, error) {
	if limit < 0 {
		return ImportReport{}, fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, limit)
	}
	companies, err := u.catalog.ListCompanies(ctx, limit)
	if err != nil {
		return ImportReport{}, err
	}
	attrs, err := u.catalog.ListAttributes(ctx)
	if err != nil {
		return ImportReport{}, err
	}
	slog.Info("import started", "companies", len(companies), "attributes", len(attrs))
	return u.run(ctx, companies, attrs), nil
}

// ImportOne extracts every attribute for the companies listed under symbol.
func (u *ImportUsecase) ImportOne(ctx context.Context, symbol string) (ImportReport, error) {
	companies, err := u.catalog.FindCompaniesBySymbol(ctx, symbol)
	if err != nil {
		return ImportReport{}, err
	}
	if len(companies) == 0 {
		return ImportReport{}, fmt.Errorf("%w: %s", ErrCompanyNotFound, symbol)
	}
	attrs, err := u.catalog.ListAttributes(ctx)
	if err != nil {
		return ImportReport{}, err
	}
	return u.run(ctx, companies, attrs), nil
}

// run iterates companies in the outer loop so attributes sharing a page hit the cache.
func (u *ImportUsecase) run(ctx context.Context, companies []entity.Company, attrs []entity.Attribute) ImportReport {
	var report ImportReport
	ex := u.newExtractor()
	for _, c := range companies {
		for _, a := range attrs {
			if ctx.Err() != nil {
				slog.Warn("import interrupted", "error", ctx.Err(), "extracted", report.Extracted)
				return report
			}
			v, err := ex.Extract(ctx, c, a)
			switch {
			case err != nil:
				report.Failed++
				// 1件のエラーで処理を止めずにログに出力し、次のペアへ進む
				slog.Error("failed to extract value", "symbol", c.Symbol, "attribute", a.Name, "error", err,
					"fetch", errors.Is(err, ErrFetch))
			case v == nil:
				report.Missed++
				slog.Info("no value extracted", "symbol", c.Symbol, "attribute", a.Name)
			default:
				report.Extracted++
				slog.Info("value extracted", "symbol", c.Symbol, "attribute", a.Name, "value", v.Value.String())
			}
		}
	}
	return report
}
