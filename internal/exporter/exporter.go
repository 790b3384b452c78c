package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"trainpulse/internal/config"
	"trainpulse/internal/dataprocessing"
	"trainpulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Exporter writes record tables in one of the supported formats
type Exporter struct {
	// BOM prefixes CSV output with a UTF-8 byte order mark
	BOM bool
	// SheetName names the XLSX worksheet
	SheetName string

	logger *slog.Logger
}

// New creates an exporter
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		SheetName: "Movements",
		logger:    logger.With(slog.String("component", "exporter")),
	}
}

// Write encodes records to w in format
func (e *Exporter) Write(w io.Writer, records []domain.Record, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case config.FormatJSON:
		return e.writeJSON(w, records)
	case config.FormatXLSX:
		return e.writeXLSX(w, records)
	default:
		return e.writeCSV(w, records)
	}
}

// WriteFile writes records to path, creating parent directories. An
// empty format is taken from the file extension.
func (e *Exporter) WriteFile(path string, records []domain.Record, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := e.Write(file, records, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	e.logger.Info("export written",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("records", len(records)))
	return nil
}

func (e *Exporter) writeCSV(w io.Writer, records []domain.Record) error {
	if e.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	if _, err := io.WriteString(w, dataprocessing.New(records, nil).CSV()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func (e *Exporter) writeJSON(w io.Writer, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
