package config

import (
	"time"

	"trainpulse/pkg/contracts"
)

// Application info
const (
	AppName    = "trainpulse"
	AppVersion = contracts.Version
)

// Spreadsheet defaults
const (
	// DefaultSpreadsheetID is the movement register the tools read unless
	// configured otherwise
	DefaultSpreadsheetID = "1OuiQ3FEoNAtH10NllgLusxACjn2NU0yZUcHh68hLoI4"
	DefaultRange         = "Sheet1!A1:L"

	DefaultSheetsTimeout           = 30 * time.Second
	DefaultSheetsRequestsPerMinute = 60

	// HeaderRows is the number of leading rows (title and column labels)
	// that carry no data
	HeaderRows = 2
)

// Server defaults
const (
	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40
	APIPrefix             = "/api/v1"
)

// Logging defaults
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/trainpulse.log"
)

// Watch defaults
const (
	DefaultWatchSchedule = "@every 60s"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)
