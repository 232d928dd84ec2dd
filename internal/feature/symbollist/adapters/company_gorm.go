// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/symbollist/usecase"
	"stock_screener/internal/platform/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// companyGorm はCompanyRepositoryインターフェースのGORM実装です。
type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyGorm)(nil)

// NewCompanyRepository は指定されたDB接続でcompanyGormリポジトリの新しいインスタンスを生成します。
func NewCompanyRepository(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// ListCompanies はフィルタに一致する会社をsymbol順に返します。
func (r *companyGorm) ListCompanies(ctx context.Context, filter usecase.CompanyFilter) ([]entity.Company, error) {
	q := r.db.WithContext(ctx).Preload("Sector").Order("symbol ASC")
	if filter.SectorID != nil {
		q = q.Where("sector_id = ?", *filter.SectorID)
	}
	if filter.Exchange != nil {
		q = q.Where("exchange = ?", *filter.Exchange)
	}
	var companies []entity.Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// ListSectors はすべてのセクターを名前順に返します。
func (r *companyGorm) ListSectors(ctx context.Context) ([]entity.Sector, error) {
	var sectors []entity.Sector
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

// FindOrCreateSector は名前でセクターを検索し、存在しなければ作成します。
// 同時に作成された場合は一意制約違反を検知して再取得します。
func (r *companyGorm) FindOrCreateSector(ctx context.Context, name string) (entity.Sector, error) {
	var s entity.Sector
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Sector{}, err
	}

	s = entity.Sector{Name: name}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		if !db.IsUniqueViolation(err) {
			return entity.Sector{}, fmt.Errorf("create sector %q: %w", name, err)
		}
		s = entity.Sector{}
		if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
			return entity.Sector{}, err
		}
	}
	return s, nil
}

// UpsertCompany はsymbolをキーに会社を挿入または更新します。
// reuters_symbol_okは人手による修正値なので上書きしません。
func (r *companyGorm) UpsertCompany(ctx context.Context, c *entity.Company) error {
	return r.db.WithContext(ctx).
		Omit("Sector").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "currency", "exchange", "size", "sector_id", "isin", "reuters_symbol_guess",
			}),
		}).
		Create(c).Error
}
