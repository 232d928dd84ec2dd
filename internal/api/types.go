// Package api defines the JSON shapes shared by the HTTP handlers.
package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AttributeResponse describes one screenable attribute.
type AttributeResponse struct {
	Id                uint   `json:"id"`
	Name              string `json:"name"`
	Url               string `json:"url"`
	XmlPath           string `json:"xml_path"`
	ConvertExpression string `json:"convert_expression"`
}

// HistoryEntry is one recorded value of an attribute.
type HistoryEntry struct {
	Date  openapi_types.Date `json:"date"`
	Value decimal.Decimal    `json:"value"`
}

// HistoryResponse lists the recorded values of one (company, attribute) pair, newest first.
type HistoryResponse struct {
	Symbol      string         `json:"symbol"`
	AttributeId uint           `json:"attribute_id"`
	History     []HistoryEntry `json:"history"`
}

// ImportReportResponse summarises an extraction run.
type ImportReportResponse struct {
	Extracted int `json:"extracted"`
	Missed    int `json:"missed"`
	Failed    int `json:"failed"`
}
