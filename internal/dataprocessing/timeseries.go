package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trainpulse/pkg/contracts/domain"
)

// Interval is the width of a time series bucket
type Interval string

const (
	Day   Interval = "day"
	Week  Interval = "week"
	Month Interval = "month"
)

// PeriodLayout formats bucket start dates
const PeriodLayout = "2006-01-02"

// ParseInterval validates an interval name
func ParseInterval(s string) (Interval, error) {
	switch iv := Interval(strings.ToLower(strings.TrimSpace(s))); iv {
	case Day, Week, Month:
		return iv, nil
	default:
		return "", fmt.Errorf("unknown interval %q (want day, week or month)", s)
	}
}

// next returns the start of the bucket following start. Every interval
// strictly advances.
func (iv Interval) next(start time.Time) time.Time {
	switch iv {
	case Week:
		return start.AddDate(0, 0, 7)
	case Month:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// TimePoint is one bucket of a time series
type TimePoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// dateLayouts are tried in order when parsing date cells. Slash dates
// are month first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// sheetsEpoch is day zero of spreadsheet serial dates
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate interprets a cell as a UTC instant. Strings are matched
// against common layouts; numbers are spreadsheet serial day numbers.
func ParseDate(c domain.Cell) (time.Time, bool) {
	switch c.Kind() {
	case domain.CellNumber:
		days := c.Number()
		return sheetsEpoch.Add(time.Duration(days * float64(24*time.Hour))), true
	case domain.CellString:
		s := strings.TrimSpace(c.String())
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

type datedRecord struct {
	at    time.Time
	value float64
}

// TimeSeries buckets the records by the date in dateKey. It sorts a copy
// of the dataset by date and walks consecutive half-open buckets
// [start, next(start)) beginning at the earliest date until the bucket
// start passes the latest date, so every record lands in exactly one
// bucket and empty buckets in between are reported with zero value and
// count. Records whose date cannot be parsed are left out.
func (t *Transformer) TimeSeries(dateKey, valueKey string, interval Interval) ([]TimePoint, error) {
	if _, err := ParseInterval(string(interval)); err != nil {
		return nil, err
	}

	dated := make([]datedRecord, 0, len(t.records))
	for _, r := range t.records {
		at, ok := ParseDate(r.Get(dateKey))
		if !ok {
			continue
		}
		dated = append(dated, datedRecord{at: at, value: r.Get(valueKey).Number()})
	}
	if len(dated) == 0 {
		return []TimePoint{}, nil
	}

	sort.SliceStable(dated, func(i, j int) bool { return dated[i].at.Before(dated[j].at) })

	last := dated[len(dated)-1].at
	points := make([]TimePoint, 0)
	i := 0
	for start := dated[0].at; !start.After(last); start = interval.next(start) {
		end := interval.next(start)
		p := TimePoint{Period: start.Format(PeriodLayout)}
		for i < len(dated) && dated[i].at.Before(end) {
			p.Value += dated[i].value
			p.Count++
			i++
		}
		points = append(points, p)
	}
	return points, nil
}
