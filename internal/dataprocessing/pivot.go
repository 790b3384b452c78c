package dataprocessing

import (
	"trainpulse/pkg/contracts/domain"
)

// Pivot is a two-dimensional summary table
type Pivot struct {
	RowKey  string     `json:"row_key"`
	Columns []string   `json:"columns"`
	Rows    []PivotRow `json:"rows"`
}

// PivotRow holds one row of a pivot, cells aligned with Pivot.Columns
type PivotRow struct {
	Key   string        `json:"key"`
	Cells []domain.Cell `json:"cells"`
}

// PivotTable builds a table with one row per distinct rowKey value (in
// group order) and one column per distinct colKey value (in first
// occurrence order across the dataset). Each cell is agg applied to the
// valueKey values of the records matching both keys; combinations with
// no records apply agg to an empty sequence.
func (t *Transformer) PivotTable(rowKey, colKey, valueKey string, agg Aggregator) *Pivot {
	columns := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range t.records {
		c := r.Get(colKey).String()
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			columns = append(columns, c)
		}
	}

	p := &Pivot{RowKey: rowKey, Columns: columns}
	for _, g := range t.GroupBy(rowKey) {
		byCol := make(map[string][]domain.Cell, len(columns))
		for _, r := range g.Records {
			c := r.Get(colKey).String()
			byCol[c] = append(byCol[c], r.Get(valueKey))
		}

		row := PivotRow{Key: g.Key, Cells: make([]domain.Cell, len(columns))}
		for i, c := range columns {
			row.Cells[i] = domain.Number(agg(byCol[c]))
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Cell returns the value at (row, column) and whether both exist
func (p *Pivot) Cell(row, column string) (domain.Cell, bool) {
	ci := -1
	for i, c := range p.Columns {
		if c == column {
			ci = i
			break
		}
	}
	if ci < 0 {
		return domain.Empty(), false
	}
	for _, r := range p.Rows {
		if r.Key == row {
			return r.Cells[ci], true
		}
	}
	return domain.Empty(), false
}

// Records flattens the pivot into records keyed by the row key followed
// by one column per pivot column
func (p *Pivot) Records() []domain.Record {
	out := make([]domain.Record, len(p.Rows))
	for i, row := range p.Rows {
		r := domain.NewRecord(domain.Field{Name: p.RowKey, Value: domain.String(row.Key)})
		for j, c := range p.Columns {
			r.Set(c, row.Cells[j])
		}
		out[i] = r
	}
	return out
}
