// Package usecase implements the business logic for the company directory:
// listing companies and sectors, and importing the external directory feed.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"stock_screener/internal/domain/entity"
)

// ErrInvalidExchange is returned when a company filter names an unknown exchange.
var ErrInvalidExchange = errors.New("invalid exchange")

// sizeMap maps the feed's size labels to size classes.
var sizeMap = map[string]entity.SizeClass{
	"LARGE": entity.SizeLarge,
	"MID":   entity.SizeMedium,
	"SMALL": entity.SizeSmall,
}

// CompanyFilter narrows ListCompanies. Nil fields do not filter.
type CompanyFilter struct {
	SectorID *uint
	Exchange *entity.Exchange
}

// CompanyRepository abstracts the persistence layer for companies and sectors.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CompanyRepository interface {
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]entity.Company, error)
	ListSectors(ctx context.Context) ([]entity.Sector, error)
	// FindOrCreateSector returns the sector called name, creating it when missing.
	FindOrCreateSector(ctx context.Context, name string) (entity.Sector, error)
	// UpsertCompany inserts c or, when a company with the same symbol exists,
	// updates its directory fields. The human-corrected symbol is never touched.
	UpsertCompany(ctx context.Context, c *entity.Company) error
}

// DirectoryRecord is one company as published by the directory feed.
// Empty fields were missing from the feed.
type DirectoryRecord struct {
	Name               string
	Currency           string
	Exchange           string
	Size               string
	Sector             string
	Symbol             string
	ISIN               string
	ReutersSymbolGuess string
}

// DirectoryFeed downloads the external company directory.
type DirectoryFeed interface {
	FetchCompanies(ctx context.Context) ([]DirectoryRecord, error)
}

// DirectoryReport summarises a directory import.
type DirectoryReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// SymbolUsecase provides business logic for the company directory.
type SymbolUsecase struct {
	repo CompanyRepository
	feed DirectoryFeed
}

// NewSymbolUsecase creates a new SymbolUsecase. feed may be nil when the
// directory import is not used.
func NewSymbolUsecase(r CompanyRepository, feed DirectoryFeed) *SymbolUsecase {
	return &SymbolUsecase{repo: r, feed: feed}
}

// ListCompanies returns the companies in the given sector and on the given exchange.
func (u *SymbolUsecase) ListCompanies(ctx context.Context, filter CompanyFilter) ([]entity.Company, error) {
	if filter.Exchange != nil && !filter.Exchange.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExchange, *filter.Exchange)
	}
	return u.repo.ListCompanies(ctx, filter)
}

// ListSectors returns every sector.
func (u *SymbolUsecase) ListSectors(ctx context.Context) ([]entity.Sector, error) {
	return u.repo.ListSectors(ctx)
}

// ImportDirectory downloads the directory feed and upserts every complete
// record by listing symbol. Incomplete records and records with an unknown
// size or exchange are skipped; a failing record does not stop the import.
func (u *SymbolUsecase) ImportDirectory(ctx context.Context) (DirectoryReport, error) {
	if u.feed == nil {
		return DirectoryReport{}, errors.New("directory feed is not configured")
	}
	records, err := u.feed.FetchCompanies(ctx)
	if err != nil {
		return DirectoryReport{}, fmt.Errorf("fetch directory: %w", err)
	}

	var report DirectoryReport
	sectors := map[string]entity.Sector{}
	for _, r := range records {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		c, ok := toCompany(r)
		if !ok {
			report.Skipped++
			continue
		}

		sector, ok := sectors[r.Sector]
		if !ok {
			sector, err = u.repo.FindOrCreateSector(ctx, r.Sector)
			if err != nil {
				report.Failed++
				slog.Error("failed to resolve sector", "sector", r.Sector, "symbol", r.Symbol, "error", err)
				continue
			}
			sectors[r.Sector] = sector
		}
		c.SectorID = sector.ID

		if err := u.repo.UpsertCompany(ctx, &c); err != nil {
			report.Failed++
			slog.Error("failed to save company", "symbol", r.Symbol, "error", err)
			continue
		}
		report.Imported++
	}
	slog.Info("directory import finished", "imported", report.Imported, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// toCompany validates a feed record. ok is false when the record must be skipped.
func toCompany(r DirectoryRecord) (entity.Company, bool) {
	for _, f := range []string{r.Name, r.Currency, r.Exchange, r.Size, r.Sector, r.Symbol, r.ISIN, r.ReutersSymbolGuess} {
		if f == "" {
			return entity.Company{}, false
		}
	}
	size, ok := sizeMap[strings.ToUpper(r.Size)]
	if !ok {
		slog.Warn("skipping company with unknown size", "symbol", r.Symbol, "size", r.Size)
		return entity.Company{}, false
	}
	exchange := entity.Exchange(strings.ToUpper(r.Exchange))
	if !exchange.Valid() {
		slog.Warn("skipping company with unknown exchange", "symbol", r.Symbol, "exchange", r.Exchange)
		return entity.Company{}, false
	}
	return entity.Company{
		Name:               r.Name,
		Symbol:             r.Symbol,
		Currency:           r.Currency,
		Exchange:           exchange,
		Size:               size,
		ISIN:               r.ISIN,
		ReutersSymbolGuess: r.ReutersSymbolGuess,
	}, true
}
