package adapters

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_screener/internal/domain/entity"
	"stock_screener/internal/feature/extraction/usecase"
)

type valueGorm struct {
	db *gorm.DB
}

var (
	_ usecase.ValueRepository   = (*valueGorm)(nil)
	_ usecase.HistoryRepository = (*valueGorm)(nil)
)

// NewValueRepository は attribute_values / attribute_value_histories を扱うリポジトリを返します。
func NewValueRepository(db *gorm.DB) *valueGorm {
	return &valueGorm{db: db}
}

func (r *valueGorm) FindValue(ctx context.Context, attributeID, companyID uint) (*entity.AttributeValue, error) {
	var v entity.AttributeValue
	err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND company_id = ?", attributeID, companyID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *valueGorm) LatestHistory(ctx context.Context, attributeValueID uint) (*entity.ValueHistory, error) {
	if attributeValueID == 0 {
		return nil, nil
	}
	var h entity.ValueHistory
	err := r.db.WithContext(ctx).
		Where("attribute_value_id = ?", attributeValueID).
		Order("historical_date DESC, id DESC").
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Save upserts value on (attribute_id, company_id) and appends history in the same transaction.
func (r *valueGorm) Save(ctx context.Context, value *entity.AttributeValue, history *entity.ValueHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if value.ID != 0 {
			if err := tx.Model(&entity.AttributeValue{}).
				Where("id = ?", value.ID).
				Update("value", value.Value).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "attribute_id"}, {Name: "company_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(value).Error; err != nil {
				return err
			}
			// the conflict path does not always report the existing id
			var ids []uint
			if err := tx.Model(&entity.AttributeValue{}).
				Where("attribute_id = ? AND company_id = ?", value.AttributeID, value.CompanyID).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				return gorm.ErrRecordNotFound
			}
			value.ID = ids[0]
		}

		if history == nil {
			return nil
		}
		history.AttributeValueID = value.ID
		return tx.Create(history).Error
	})
}

func (r *valueGorm) ListHistory(ctx context.Context, attributeValueID uint) ([]entity.ValueHistory, error) {
	var out []entity.ValueHistory
	if err := r.db.WithContext(ctx).
		Where("attribute_value_id = ?", attributeValueID).
		Order("historical_date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListValues returns every stored value of the attribute in ascending order.
func (r *valueGorm) ListValues(ctx context.Context, attributeID uint) ([]decimal.Decimal, error) {
	var out []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&entity.AttributeValue{}).
		Where("attribute_id = ?", attributeID).
		Order("value ASC").
		Pluck("value", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
