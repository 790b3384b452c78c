// Package dataprocessing shapes and analyses train movement records held in
// memory. The central type is Transformer, a table of domain.Record values
// with chainable filtering and mapping plus a set of read-only views.
//
// # Construction
//
// New copies the given records and drops blank ones (every value empty or
// the empty string). Load accepts loosely typed input and, for input that
// is not a sequence of records, either starts empty with a warning
// (Lenient) or fails with ErrMalformedInput (Strict):
//
//	t, err := dataprocessing.Load(decoded, domain.MovementHeaders, dataprocessing.Strict)
//
// # Chaining
//
// Filter and Map change the transformer in place and return it:
//
//	late := t.Clone().
//	    Filter(func(r domain.Record) bool { return r.Get("Status").String() == "TER" }).
//	    Records()
//
// Use Clone to keep the state before a chain.
//
// # Views
//
//	GroupBy             records per distinct key, first-seen order
//	Aggregate           one row per group with aggregated columns
//	Summarize           named metrics over the whole table
//	PivotTable          row key x column key grid of aggregated values
//	TimeSeries          day, week or calendar month buckets
//	CalculateStatistics min, max, mean, median, population std dev
//	JSON, CSV           export
//
// # Aggregators
//
// Sum, Avg, Max, Min and Count coerce cells to numbers (non-numeric
// counts as 0, Count counts everything). Over an empty sequence Avg is
// NaN, Max is -Inf and Min is +Inf.
//
// # Numeric leniency
//
// No operation fails on bad cell content: non-numeric values count as
// zero in sums and are skipped by CalculateStatistics, unparseable dates
// are skipped by TimeSeries.
package dataprocessing
