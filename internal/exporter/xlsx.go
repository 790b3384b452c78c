package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"trainpulse/pkg/contracts/domain"
)

// writeXLSX writes one worksheet with a bold header row taken from the
// first record. Numbers stay numeric; NaN and infinities are left blank.
func (e *Exporter) writeXLSX(w io.Writer, records []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if len(records) > 0 {
		columns := records[0].Keys()
		if err := writeXLSXRow(f, sheet, 1, stringsToAny(columns)); err != nil {
			return err
		}

		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(max(1, len(columns)), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}

		for i, r := range records {
			row := make([]any, len(columns))
			for j, c := range columns {
				row[j] = xlsxValue(r.Get(c))
			}
			if err := writeXLSXRow(f, sheet, i+2, row); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeXLSXRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func xlsxValue(c domain.Cell) any {
	if c.Kind() == domain.CellNumber {
		n := c.Number()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return n
	}
	return c.String()
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
