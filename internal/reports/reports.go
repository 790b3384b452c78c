// Package reports builds the dashboard summaries over movement records:
// status filters, station performance and train activity.
package reports

import (
	"strings"
	"time"

	"trainpulse/internal/dataprocessing"
	"trainpulse/pkg/contracts/domain"
)

// ByStatus keeps records whose Status column equals status, ignoring case
// and surrounding space. An empty status keeps every record.
func ByStatus(status string) func(domain.Record) bool {
	want := strings.TrimSpace(status)
	return func(r domain.Record) bool {
		if want == "" {
			return true
		}
		return strings.EqualFold(strings.TrimSpace(r.Get(domain.ColStatus).String()), want)
	}
}

// StationSummary is one row of the station performance table
type StationSummary struct {
	Station  string         `json:"station"`
	Total    int            `json:"total"`
	Trains   int            `json:"trains"`
	ByStatus map[string]int `json:"by_status"`
}

// StationPerformance counts movements per station, split by status, in
// the order stations first appear
func StationPerformance(t *dataprocessing.Transformer) []StationSummary {
	totals := t.Aggregate(domain.ColStation, []dataprocessing.Aggregation{
		{Name: "total", Field: domain.ColUID, Func: dataprocessing.Count},
	})
	pivot := t.PivotTable(domain.ColStation, domain.ColStatus, domain.ColUID, dataprocessing.Count)

	trains := make(map[string]map[string]struct{})
	for _, g := range t.GroupBy(domain.ColStation) {
		set := make(map[string]struct{})
		for _, r := range g.Records {
			set[r.Get(domain.ColTrainName).String()] = struct{}{}
		}
		trains[g.Key] = set
	}

	out := make([]StationSummary, 0, len(totals))
	for _, row := range totals {
		station := row.Get(domain.ColStation).String()
		s := StationSummary{
			Station:  station,
			Total:    int(row.Get("total").Number()),
			Trains:   len(trains[station]),
			ByStatus: make(map[string]int),
		}
		for _, status := range pivot.Columns {
			c, _ := pivot.Cell(station, status)
			if n := int(c.Number()); n > 0 {
				s.ByStatus[status] = n
			}
		}
		out = append(out, s)
	}
	return out
}

// TrainSummary is one row of the train activity table
type TrainSummary struct {
	Train       string `json:"train"`
	Movements   int    `json:"movements"`
	Stations    int    `json:"stations"`
	LastStation string `json:"last_station"`
	LastStatus  string `json:"last_status"`
	LastSeen    string `json:"last_seen,omitempty"`
}

// TrainActivity counts movements per train and reports where each train
// was last seen. The latest record is the one with the greatest parsable
// timestamp; records without one fall back to sheet order.
func TrainActivity(t *dataprocessing.Transformer) []TrainSummary {
	groups := t.GroupBy(domain.ColTrainName)
	out := make([]TrainSummary, 0, len(groups))

	for _, g := range groups {
		stations := make(map[string]struct{})
		var (
			last     domain.Record
			lastSeen time.Time
			dated    bool
		)
		for _, r := range g.Records {
			stations[r.Get(domain.ColStation).String()] = struct{}{}

			ts, ok := dataprocessing.ParseDate(r.Get(domain.ColTimestamp))
			switch {
			case ok && (!dated || !ts.Before(lastSeen)):
				last, lastSeen, dated = r, ts, true
			case !ok && !dated:
				last = r
			}
		}

		s := TrainSummary{
			Train:       g.Key,
			Movements:   len(g.Records),
			Stations:    len(stations),
			LastStation: last.Get(domain.ColStation).String(),
			LastStatus:  last.Get(domain.ColStatus).String(),
		}
		if dated {
			s.LastSeen = lastSeen.Format(time.RFC3339)
		}
		out = append(out, s)
	}
	return out
}

// StatusCounts counts movements per status over the whole dataset
func StatusCounts(t *dataprocessing.Transformer) map[string]int {
	out := make(map[string]int)
	for _, g := range t.GroupBy(domain.ColStatus) {
		out[g.Key] = len(g.Records)
	}
	return out
}
