package dataprocessing

import (
	"github.com/montanaflynn/stats"
)

// Statistics summarises the numeric values of one column
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// CalculateStatistics computes min, max, mean, median and population
// standard deviation over the numeric values of valueKey. Values that
// do not parse as numbers are ignored. With no numeric values every
// field is zero.
func (t *Transformer) CalculateStatistics(valueKey string) Statistics {
	data := make(stats.Float64Data, 0, len(t.records))
	for _, r := range t.records {
		if f, ok := r.Get(valueKey).Float(); ok {
			data = append(data, f)
		}
	}
	return describe(data)
}

func describe(data stats.Float64Data) Statistics {
	if len(data) == 0 {
		return Statistics{}
	}

	// stats only errors on empty input, which is handled above
	min, _ := data.Min()
	max, _ := data.Max()
	mean, _ := data.Mean()
	median, _ := data.Median()
	stdDev, _ := data.StandardDeviationPopulation()

	return Statistics{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Count:  len(data),
	}
}
