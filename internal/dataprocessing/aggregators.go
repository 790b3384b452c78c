package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"trainpulse/pkg/contracts/domain"
)

// Aggregator reduces a sequence of cells to a single number
type Aggregator func(values []domain.Cell) float64

// Sum adds the values, counting non-numeric cells as 0
func Sum(values []domain.Cell) float64 {
	total := 0.0
	for _, v := range values {
		total += v.Number()
	}
	return total
}

// Avg is the arithmetic mean with non-numeric cells counted as 0.
// The mean of no values is NaN.
func Avg(values []domain.Cell) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return Sum(values) / float64(len(values))
}

// Max returns the largest value, -Inf for no values
func Max(values []domain.Cell) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v.Number())
	}
	return m
}

// Min returns the smallest value, +Inf for no values
func Min(values []domain.Cell) float64 {
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v.Number())
	}
	return m
}

// Count returns the number of values regardless of content
func Count(values []domain.Cell) float64 {
	return float64(len(values))
}

var aggregators = map[string]Aggregator{
	"sum":   Sum,
	"avg":   Avg,
	"max":   Max,
	"min":   Min,
	"count": Count,
}

// AggregatorByName resolves one of sum, avg, max, min or count
func AggregatorByName(name string) (Aggregator, error) {
	agg, ok := aggregators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown aggregator %q (want one of %s)", name, strings.Join(AggregatorNames(), ", "))
	}
	return agg, nil
}

// AggregatorNames lists the registered aggregator names
func AggregatorNames() []string {
	names := make([]string, 0, len(aggregators))
	for name := range aggregators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// values collects the cells stored under key across records
func values(records []domain.Record, key string) []domain.Cell {
	out := make([]domain.Cell, len(records))
	for i, r := range records {
		out[i] = r.Get(key)
	}
	return out
}
