// Package exporter writes record tables to CSV, JSON or XLSX.
//
// CSV output uses the table's own rendering: a header from the first
// record, comma-bearing values wrapped in quotes and no trailing newline.
// An optional UTF-8 BOM helps spreadsheet programs detect the encoding.
//
// Example usage:
//
//	exp := exporter.New(logger)
//	err := exp.WriteFile("out/movements.xlsx", t.Records(), "")
package exporter
