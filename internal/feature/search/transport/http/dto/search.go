// Package dto defines data transfer objects for the search HTTP API.
package dto

import "github.com/shopspring/decimal"

// CriterionRequest restricts one attribute to [min, max]; omitted bounds are open.
type CriterionRequest struct {
	AttributeID uint             `json:"attribute_id" binding:"required"`
	Min         *decimal.Decimal `json:"min"`
	Max         *decimal.Decimal `json:"max"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Criteria []CriterionRequest `json:"criteria" binding:"dive"`
	SectorID *uint              `json:"sector_id"`
	Exchange string             `json:"exchange"`
	Show     string             `json:"show"` // "all" or "criteria"
}

// HeaderItem is one result column.
type HeaderItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ResultItem is one matching company. Values line up with the headers; null means no value.
type ResultItem struct {
	Symbol   string             `json:"symbol"`
	Name     string             `json:"name"`
	Sector   string             `json:"sector"`
	Exchange string             `json:"exchange"`
	Matches  int                `json:"matches"`
	Values   []*decimal.Decimal `json:"values"`
}

// SearchResponse is the body returned by POST /search.
type SearchResponse struct {
	Headers []HeaderItem `json:"headers"`
	Results []ResultItem `json:"results"`
}

// BoundsResponse is the observed value range of an attribute.
type BoundsResponse struct {
	AttributeID uint            `json:"attribute_id"`
	Name        string          `json:"name"`
	Min         decimal.Decimal `json:"min"`
	Max         decimal.Decimal `json:"max"`
}
