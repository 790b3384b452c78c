package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	"trainpulse/internal/config"
)

// ParseFormat normalizes a format name
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case config.FormatCSV, config.FormatJSON, config.FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json or xlsx)", s)
	}
}

// FormatFromPath picks the format from the file extension, csv when the
// extension is unknown
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return config.FormatJSON
	case ".xlsx":
		return config.FormatXLSX
	default:
		return config.FormatCSV
	}
}

// ContentType returns the MIME type of format
func ContentType(format string) string {
	switch format {
	case config.FormatJSON:
		return "application/json"
	case config.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}
