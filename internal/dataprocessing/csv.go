package dataprocessing

import (
	"strings"

	"trainpulse/pkg/contracts/domain"
)

// CSV renders the dataset as comma separated text. The header line is
// the column names of the first record and every record is written in
// that column order. A value containing a comma is wrapped in double
// quotes; nothing else is escaped, so embedded quotes and newlines are
// written as is. Lines are joined with "\n" without a trailing newline.
// An empty dataset renders as the empty string.
func (t *Transformer) CSV() string {
	if len(t.records) == 0 {
		return ""
	}

	columns := t.records[0].Keys()
	lines := make([]string, 0, len(t.records)+1)
	lines = append(lines, strings.Join(columns, ","))

	fields := make([]string, len(columns))
	for _, r := range t.records {
		for i, c := range columns {
			fields[i] = csvField(r.Get(c))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// CSVRows returns the header and the stringified rows that CSV would
// write, without quoting
func (t *Transformer) CSVRows() ([]string, [][]string) {
	if len(t.records) == 0 {
		return nil, nil
	}
	columns := t.records[0].Keys()
	rows := make([][]string, len(t.records))
	for i, r := range t.records {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = r.Get(c).String()
		}
		rows[i] = row
	}
	return columns, rows
}

func csvField(c domain.Cell) string {
	s := c.String()
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}
