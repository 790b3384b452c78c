// Package config loads the application configuration.
//
// # Sources
//
// Values are layered, later sources winning:
//
//	1. Default()
//	2. a YAML file: $TRAINPULSE_CONFIG, config.yaml or configs/config.yaml
//	3. environment variables, after loading .env if present
//
// # Environment Variables
//
// Every variable is prefixed with TRAINPULSE and follows the struct nesting:
//
//	TRAINPULSE_SHEETS_SPREADSHEET_ID=1OuiQ3FEoNAtH10NllgLusxACjn2NU0yZUcHh68hLoI4
//	TRAINPULSE_SHEETS_RANGE=Sheet1!A1:L
//	TRAINPULSE_SHEETS_CREDENTIALS_FILE=service-account.json
//	TRAINPULSE_SHEETS_TIMEOUT=30s
//	TRAINPULSE_SERVER_PORT=8080
//	TRAINPULSE_LOGGING_LEVEL=debug
//	TRAINPULSE_WATCH_SCHEDULE=@every 5m
//
// # YAML
//
//	sheets:
//	  spreadsheet_id: 1OuiQ3FEoNAtH10NllgLusxACjn2NU0yZUcHh68hLoI4
//	  range: Sheet1!A1:L
//	  credentials_file: service-account.json
//	server:
//	  port: 8080
//	logging:
//	  level: info
//	  output: both
//
// Credentials are either a key file path or the key JSON itself, never
// both. With neither set the Google client falls back to application
// default credentials.
package config
