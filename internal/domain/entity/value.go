package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueScale is the number of fractional digits kept for attribute values.
// It matches the numeric(19,5) columns below.
const ValueScale = 5

// AttributeValue is the live value of one attribute for one company.
// (AttributeID, CompanyID) is unique.
type AttributeValue struct {
	ID          uint            `gorm:"primaryKey"`
	AttributeID uint            `gorm:"not null;uniqueIndex:attr_value_attr_company,priority:1;index:attr_value_attr_value,priority:1"`
	CompanyID   uint            `gorm:"not null;uniqueIndex:attr_value_attr_company,priority:2"`
	Value       decimal.Decimal `gorm:"type:numeric(19,5);not null;index:attr_value_attr_value,priority:2"`
}

// ValueHistory is an append-only record of a value an AttributeValue once held.
type ValueHistory struct {
	ID               uint            `gorm:"primaryKey"`
	AttributeValueID uint            `gorm:"not null;index"`
	HistoricalValue  decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	HistoricalDate   time.Time       `gorm:"type:date;not null"`
}

// TableName keeps the history table name stable.
func (ValueHistory) TableName() string {
	return "attribute_value_histories"
}
