package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainpulse/pkg/contracts/domain"
)

func cells(vs ...any) []domain.Cell {
	out := make([]domain.Cell, len(vs))
	for i, v := range vs {
		out[i] = domain.CellOf(v)
	}
	return out
}

func TestAggregators(t *testing.T) {
	vals := cells(1, "2", "x", nil, 4.5)

	assert.Equal(t, 7.5, Sum(vals))
	assert.Equal(t, 1.5, Avg(vals))
	assert.Equal(t, 4.5, Max(vals))
	assert.Equal(t, 0.0, Min(vals))
	assert.Equal(t, 5.0, Count(vals))
}

func TestAggregators_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 0.0, Count(nil))
	assert.True(t, math.IsNaN(Avg(nil)))
	assert.True(t, math.IsInf(Max(nil), -1))
	assert.True(t, math.IsInf(Min(nil), 1))
}

func TestAggregatorByName(t *testing.T) {
	agg, err := AggregatorByName(" SUM ")
	require.NoError(t, err)
	assert.Equal(t, 3.0, agg(cells(1, 2)))

	_, err = AggregatorByName("median")
	assert.Error(t, err)
	assert.Equal(t, []string{"avg", "count", "max", "min", "sum"}, AggregatorNames())
}

func TestGroupBy_OrderAndCompleteness(t *testing.T) {
	tr := New(sampleRecords(), nil)
	groups := tr.GroupBy("Train Name")

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"12951", "12952", "22221"}, []string{groups[0].Key, groups[1].Key, groups[2].Key})
	assert.Equal(t, "NDLS", groups[0].Records[0].Get("Station").String())
	assert.Equal(t, "BRC", groups[0].Records[1].Get("Station").String())

	// every record appears exactly once across the groups
	seen := map[string]int{}
	for _, g := range groups {
		for _, r := range g.Records {
			seen[r.Get("Station").String()+"/"+r.Get("Train Name").String()]++
		}
	}
	for _, r := range tr.Records() {
		seen[r.Get("Station").String()+"/"+r.Get("Train Name").String()]--
	}
	for k, v := range seen {
		assert.Zero(t, v, k)
	}
}

func TestGroupBy_ContiguousInputRoundTrips(t *testing.T) {
	recs := []domain.Record{
		movement("A", "1", "TER", 1),
		movement("A", "2", "TER", 2),
		movement("B", "3", "HO", 3),
	}
	tr := New(recs, nil)

	var flattened []domain.Record
	for _, g := range tr.GroupBy("Train Name") {
		flattened = append(flattened, g.Records...)
	}
	assert.Equal(t, tr.Records(), flattened)
}

func TestGroupBy_MissingKeyGroupsTogether(t *testing.T) {
	tr := New([]domain.Record{
		domain.NewRecord(domain.Col("a", 1)),
		domain.NewRecord(domain.Col("a", 2), domain.Col("k", "x")),
		domain.NewRecord(domain.Col("a", 3)),
	}, nil)

	groups := tr.GroupBy("k")
	require.Len(t, groups, 2)
	assert.Equal(t, "", groups[0].Key)
	assert.Len(t, groups[0].Records, 2)
}

func TestAggregate(t *testing.T) {
	tr := New(sampleRecords(), nil)
	rows := tr.Aggregate("Station", []Aggregation{
		{Field: "Delay", Func: Sum},
		{Name: "movements", Field: "Delay", Func: Count},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Station", "Delay", "movements"}, rows[0].Keys())
	assert.Equal(t, "NDLS", rows[0].Get("Station").String())
	assert.Equal(t, 30.0, rows[0].Get("Delay").Number())
	assert.Equal(t, 2.0, rows[0].Get("movements").Number())
	assert.Equal(t, 0.0, rows[2].Get("Delay").Number(), "non-numeric delay counts as zero")

	total := 0.0
	for _, r := range rows {
		total += r.Get("movements").Number()
	}
	assert.Equal(t, float64(tr.Len()), total)
}

func TestSummarize(t *testing.T) {
	tr := New(sampleRecords(), nil)
	summary := tr.Summarize([]Metric{
		FieldMetric("total_delay", "Delay", Sum),
		FieldMetric("max_delay", "Delay", Max),
		{Name: "first_station", Func: func(rs []domain.Record) domain.Cell { return rs[0].Get("Station") }},
	})

	assert.Equal(t, []string{"total_delay", "max_delay", "first_station"}, summary.Keys())
	assert.Equal(t, 35.0, summary.Get("total_delay").Number())
	assert.Equal(t, 20.0, summary.Get("max_delay").Number())
	assert.Equal(t, "NDLS", summary.Get("first_station").String())
}

func TestPivotTable(t *testing.T) {
	tr := New(sampleRecords(), nil)

	p := tr.PivotTable("Station", "Status", "Delay", Sum)
	assert.Equal(t, []string{"TER", "HO"}, p.Columns)
	require.Len(t, p.Rows, 3)

	v, ok := p.Cell("NDLS", "TER")
	require.True(t, ok)
	assert.Equal(t, 30.0, v.Number())

	v, ok = p.Cell("NDLS", "HO")
	require.True(t, ok)
	assert.Equal(t, 0.0, v.Number(), "sum of no records is zero")

	avg := tr.PivotTable("Station", "Status", "Delay", Avg)
	v, ok = avg.Cell("NDLS", "HO")
	require.True(t, ok)
	assert.Equal(t, domain.CellNumber, v.Kind())
	_, numeric := v.Float()
	assert.False(t, numeric, "avg of no records is NaN")

	_, ok = p.Cell("NDLS", "missing")
	assert.False(t, ok)
}

func TestPivot_Records(t *testing.T) {
	tr := New(sampleRecords(), nil)
	recs := tr.PivotTable("Station", "Status", "Delay", Count).Records()

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Station", "TER", "HO"}, recs[0].Keys())
	assert.Equal(t, 2.0, recs[0].Get("TER").Number())
	assert.Equal(t, 1.0, recs[1].Get("HO").Number())
}

func TestCalculateStatistics(t *testing.T) {
	tests := []struct {
		name string
		vals []any
		want Statistics
	}{
		{
			name: "no values",
			vals: nil,
			want: Statistics{},
		},
		{
			name: "all non-numeric",
			vals: []any{"late", "", nil},
			want: Statistics{},
		},
		{
			name: "even count",
			vals: []any{4, "1", 3, 2},
			want: Statistics{Min: 1, Max: 4, Mean: 2.5, Median: 2.5, StdDev: math.Sqrt(1.25), Count: 4},
		},
		{
			name: "odd count skips text",
			vals: []any{5, "x", 1, 3},
			want: Statistics{Min: 1, Max: 5, Mean: 3, Median: 3, StdDev: math.Sqrt(8.0 / 3.0), Count: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := make([]domain.Record, 0, len(tt.vals))
			for i, v := range tt.vals {
				recs = append(recs, domain.NewRecord(domain.Col("id", i+1), domain.Col("v", v)))
			}
			got := New(recs, nil).CalculateStatistics("v")

			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.Median, got.Median, 1e-9)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-9)
		})
	}
}

func TestCalculateStatistics_OneToFour(t *testing.T) {
	recs := []domain.Record{}
	for _, v := range []float64{1, 2, 3, 4} {
		recs = append(recs, domain.NewRecord(domain.Col("v", v)))
	}
	got := New(recs, nil).CalculateStatistics("v")

	assert.Equal(t, 1.0, got.Min)
	assert.Equal(t, 4.0, got.Max)
	assert.Equal(t, 2.5, got.Mean)
	assert.Equal(t, 2.5, got.Median)
	assert.InDelta(t, 1.118, got.StdDev, 0.001)
}
