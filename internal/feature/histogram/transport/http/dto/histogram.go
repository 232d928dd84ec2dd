// Package dto defines data transfer objects for the histogram HTTP API.
package dto

import "github.com/shopspring/decimal"

// BucketItem is one histogram bucket.
type BucketItem struct {
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
	Count int             `json:"count"`
}

// HistogramResponse is the value distribution of one attribute.
type HistogramResponse struct {
	AttributeID uint            `json:"attribute_id"`
	Low         decimal.Decimal `json:"low"`
	High        decimal.Decimal `json:"high"`
	CountMin    int             `json:"count_min"`
	CountMax    int             `json:"count_max"`
	Buckets     []BucketItem    `json:"buckets"`
}
