package dataprocessing

import (
	"trainpulse/pkg/contracts/domain"
)

// Group is the set of records sharing one value of the grouping key
type Group struct {
	Key     string          `json:"key"`
	Records []domain.Record `json:"records"`
}

// Aggregation applies Func to the values of Field within each group.
// The output column is Name, or Field when Name is empty.
type Aggregation struct {
	Name  string
	Field string
	Func  Aggregator
}

func (a Aggregation) column() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Field
}

// Metric computes one summary value over a whole dataset
type Metric struct {
	Name string
	Func func(records []domain.Record) domain.Cell
}

// FieldMetric builds a Metric that applies agg to one column
func FieldMetric(name, field string, agg Aggregator) Metric {
	return Metric{
		Name: name,
		Func: func(records []domain.Record) domain.Cell {
			return domain.Number(agg(values(records, field)))
		},
	}
}

// GroupBy partitions the records by the text of key. Groups appear in
// the order their key was first seen; records keep their relative order.
func (t *Transformer) GroupBy(key string) []Group {
	return groupRecords(t.records, key)
}

func groupRecords(records []domain.Record, key string) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, r := range records {
		k := r.Get(key).String()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Aggregate produces one record per group of groupKey holding the group
// key followed by one column per aggregation
func (t *Transformer) Aggregate(groupKey string, aggs []Aggregation) []domain.Record {
	groups := t.GroupBy(groupKey)
	out := make([]domain.Record, 0, len(groups))

	for _, g := range groups {
		row := domain.NewRecord(domain.Field{Name: groupKey, Value: domain.String(g.Key)})
		for _, a := range aggs {
			row.Set(a.column(), domain.Number(a.Func(values(g.Records, a.Field))))
		}
		out = append(out, row)
	}
	return out
}

// Summarize applies every metric to the whole current dataset
func (t *Transformer) Summarize(metrics []Metric) domain.Record {
	out := domain.NewRecord()
	for _, m := range metrics {
		out.Set(m.Name, m.Func(t.records))
	}
	return out
}
