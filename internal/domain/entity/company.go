// Package entity defines the domain models shared by the screener features.
package entity

// Exchange is the listing exchange code of a company.
type Exchange string

// Known exchanges. The set is fixed; the directory import rejects anything else.
const (
	ExchangeCopenhagen Exchange = "CSE"
	ExchangeStockholm  Exchange = "STO"
	ExchangeHelsinki   Exchange = "HEL"
	ExchangeIceland    Exchange = "ISE"
)

var exchangeNames = map[Exchange]string{
	ExchangeCopenhagen: "Copenhagen Stock Exchange",
	ExchangeStockholm:  "Stockholm Stock Exchange",
	ExchangeHelsinki:   "Helsinki Stock Exchange",
	ExchangeIceland:    "Iceland Stock Exchange",
}

// Valid reports whether e is one of the known exchanges.
func (e Exchange) Valid() bool {
	_, ok := exchangeNames[e]
	return ok
}

// DisplayName returns the human readable exchange name, or the code itself when unknown.
func (e Exchange) DisplayName() string {
	if n, ok := exchangeNames[e]; ok {
		return n
	}
	return string(e)
}

// Exchanges returns every known exchange in display order.
func Exchanges() []Exchange {
	return []Exchange{ExchangeCopenhagen, ExchangeStockholm, ExchangeHelsinki, ExchangeIceland}
}

// SizeClass is the market-cap bucket of a company.
type SizeClass string

const (
	SizeLarge  SizeClass = "L"
	SizeMedium SizeClass = "M"
	SizeSmall  SizeClass = "S"
)

// Valid reports whether s is Large, Medium or Small.
func (s SizeClass) Valid() bool {
	return s == SizeLarge || s == SizeMedium || s == SizeSmall
}

// Sector groups companies by field of business. Names are unique.
type Sector struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// Company is a listed entity that attributes are screened against.
//
// ReutersSymbolGuess is supplied by the directory feed; ReutersSymbolOK is a
// human correction and wins when set.
type Company struct {
	ID                 uint      `gorm:"primaryKey"`
	Name               string    `gorm:"size:100;not null"`
	Symbol             string    `gorm:"size:20;not null;uniqueIndex"`
	Currency           string    `gorm:"size:4;not null"`
	Exchange           Exchange  `gorm:"size:10;not null;index"`
	Size               SizeClass `gorm:"size:1;not null"`
	SectorID           uint      `gorm:"not null;index"`
	Sector             Sector    `gorm:"constraint:OnDelete:RESTRICT"`
	ISIN               string    `gorm:"column:isin;size:30;not null"`
	ReutersSymbolGuess string    `gorm:"size:20;not null"`
	ReutersSymbolOK    *string   `gorm:"size:20"`
}

// EffectiveSymbol returns the symbol used to build extraction URLs.
func (c Company) EffectiveSymbol() string {
	if c.ReutersSymbolOK != nil {
		return *c.ReutersSymbolOK
	}
	return c.ReutersSymbolGuess
}
