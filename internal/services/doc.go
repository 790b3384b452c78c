// Package services sits between the transports and the spreadsheet
// fetcher.
//
// DataService turns fetched rows into transformers, coalescing concurrent
// fetches of the same sheet and pacing upstream calls. HealthService
// answers liveness and readiness probes. Watcher re-fetches on a cron
// schedule and logs a summary of each refresh.
package services
