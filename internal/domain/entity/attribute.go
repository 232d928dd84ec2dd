package entity

import "strings"

// SymbolPlaceholder is replaced by the company's effective symbol in Attribute.URL.
const SymbolPlaceholder = "SYMBOL"

// Attribute describes a screenable numeric stock property (e.g. P/E ratio)
// and how to scrape it: which page to fetch, where the value sits in the
// page and how to turn the raw text into a number.
type Attribute struct {
	ID                uint   `gorm:"primaryKey" json:"id" yaml:"-"`
	Name              string `gorm:"size:100;not null;uniqueIndex" json:"name" yaml:"name"`
	URL               string `gorm:"size:500;not null" json:"url" yaml:"url"`
	XMLPath           string `gorm:"column:xml_path;size:250;not null" json:"xml_path" yaml:"xml_path"`
	ConvertExpression string `gorm:"size:250;not null" json:"convert_expression" yaml:"convert_expression"`
}

// SourceURL substitutes symbol into the URL template.
func (a Attribute) SourceURL(symbol string) string {
	return strings.ReplaceAll(a.URL, SymbolPlaceholder, symbol)
}
