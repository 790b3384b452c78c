// Package api contains the request contracts of the trainpulse HTTP API.
// Version v1 is served under /api/v1. Fields are bound from the query
// string by their `query` tag and checked against their `validate` tag;
// aggregator, interval and format are custom rules.
package api

// Source request parameters

// SourceRequest selects the sheet to read and narrows it by status.
// Empty fields fall back to the configured spreadsheet and range.
type SourceRequest struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty" query:"spreadsheet_id" validate:"max=128"`
	Range         string `json:"range,omitempty" query:"range" validate:"max=128"`
	Status        string `json:"status,omitempty" query:"status" validate:"max=32"`
}

// Record API Requests

// RecordsRequest represents GET /records
type RecordsRequest struct {
	SourceRequest
	Limit  int    `json:"limit,omitempty" query:"limit" validate:"min=0"`
	Format string `json:"format,omitempty" query:"format" validate:"format"`
}

// GroupsRequest represents GET /groups
type GroupsRequest struct {
	SourceRequest
	By string `json:"by" query:"by" validate:"required"`
}

// Analytics API Requests

// AggregateRequest represents GET /aggregate
type AggregateRequest struct {
	SourceRequest
	By    string `json:"by" query:"by" validate:"required"`
	Field string `json:"field" query:"field" validate:"required"`
	Agg   string `json:"agg" query:"agg" validate:"aggregator"`
}

// PivotRequest represents GET /pivot
type PivotRequest struct {
	SourceRequest
	Row    string `json:"row" query:"row" validate:"required"`
	Column string `json:"column" query:"column" validate:"required"`
	Value  string `json:"value" query:"value"`
	Agg    string `json:"agg" query:"agg" validate:"aggregator"`
}

// TimeSeriesRequest represents GET /timeseries
type TimeSeriesRequest struct {
	SourceRequest
	Date     string `json:"date" query:"date" validate:"required"`
	Value    string `json:"value,omitempty" query:"value"`
	Interval string `json:"interval" query:"interval" validate:"interval"`
}

// StatisticsRequest represents GET /statistics
type StatisticsRequest struct {
	SourceRequest
	Field string `json:"field" query:"field" validate:"required"`
}
