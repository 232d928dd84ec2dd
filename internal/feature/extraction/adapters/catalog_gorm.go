package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/usecase"
)

type catalogGorm struct {
	db *gorm.DB
}

var (
	_ usecase.CatalogRepository = (*catalogGorm)(nil)
	_ usecase.AttributeWriter   = (*catalogGorm)(nil)
)

// NewCatalogRepository は抽出対象の属性と企業を読み取るリポジトリを返します。
func NewCatalogRepository(db *gorm.DB) *catalogGorm {
	return &catalogGorm{db: db}
}

func (r *catalogGorm) ListAttributes(ctx context.Context) ([]entity.Attribute, error) {
	var out []entity.Attribute
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogGorm) ListCompanies(ctx context.Context, limit int) ([]entity.Company, error) {
	var out []entity.Company
	q := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogGorm) FindCompaniesBySymbol(ctx context.Context, symbol string) ([]entity.Company, error) {
	var out []entity.Company
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogGorm) FindAttribute(ctx context.Context, id uint) (*entity.Attribute, error) {
	var a entity.Attribute
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertAttribute は名前をキーに属性定義を挿入または更新し、attr.ID を設定します。
func (r *catalogGorm) UpsertAttribute(ctx context.Context, attr *entity.Attribute) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "xml_path", "convert_expression"}),
	}).Create(attr).Error; err != nil {
		return err
	}
	var ids []uint
	if err := db.Model(&entity.Attribute{}).Where("name = ?", attr.Name).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 1 {
		attr.ID = ids[0]
	}
	return nil
}
