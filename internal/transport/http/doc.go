// Package http implements the REST surface over the movement data.
//
// Handlers are thin: they bind and validate query parameters, ask the
// data service for a fresh transformer, run one query over it and render
// the result. Every failure goes through the shared error handler and is
// answered as RFC 7807 problem details.
//
// Routes mounted under /api/v1:
//
//	GET /records              filtered rows as JSON, CSV or XLSX
//	GET /records.csv          rows as CSV
//	GET /groups               rows grouped by a column
//	GET /aggregate            one aggregate row per group
//	GET /pivot                two-dimensional summary
//	GET /timeseries           day, week or month buckets
//	GET /statistics           descriptive statistics of a column
//	GET /reports/stations     station performance
//	GET /reports/trains       train activity
//	GET /reports/status       movement counts per status
//
// Query parameters bind to the request types in pkg/contracts/api/v1.
//
// Health and metrics are served at the root: /health, /health/ready,
// /version and /metrics.
package http
