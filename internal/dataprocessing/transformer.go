package dataprocessing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"trainpulse/pkg/contracts/domain"
)

// ErrMalformedInput is returned by Load in strict mode when the input is
// not a sequence of records
var ErrMalformedInput = errors.New("malformed input: expected a sequence of records")

// Mode selects how Load treats input it cannot interpret
type Mode int

const (
	// Lenient replaces malformed input with an empty table and records a warning
	Lenient Mode = iota
	// Strict fails with ErrMalformedInput
	Strict
)

// Transformer holds an in-memory table and exposes query and shaping
// operations over it.
//
// Filter and Map mutate the receiver and return it so calls can be
// chained; every step after the first sees the result of the previous
// one. Callers that need to branch from an intermediate state take a
// Clone first. A Transformer must not be used from multiple goroutines
// without external synchronization.
type Transformer struct {
	records  []domain.Record
	headers  []string
	warnings []string
}

// New builds a transformer over deep copies of records, so later steps
// never write through to the caller's values. Blank records are dropped.
func New(records []domain.Record, headers []string) *Transformer {
	t := &Transformer{
		records: make([]domain.Record, 0, len(records)),
		headers: append([]string(nil), headers...),
	}
	for _, r := range records {
		t.records = append(t.records, r.Clone())
	}
	t.compact()
	return t
}

// Load builds a transformer from loosely typed input. It accepts
// []domain.Record, []domain.TrainMovement, []map[string]any and nil.
// Any other value is malformed: in Lenient mode the table starts empty
// and a warning is recorded, in Strict mode ErrMalformedInput is returned.
func Load(data any, headers []string, mode Mode) (*Transformer, error) {
	switch v := data.(type) {
	case nil:
		return New(nil, headers), nil
	case []domain.Record:
		return New(v, headers), nil
	case []domain.TrainMovement:
		return New(domain.MovementsToRecords(v), headers), nil
	case []map[string]any:
		records := make([]domain.Record, len(v))
		for i, m := range v {
			records[i] = domain.RecordFromMap(m, headers)
		}
		return New(records, headers), nil
	case []any:
		records := make([]domain.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return malformed(headers, mode, fmt.Sprintf("element %d is %T, not an object", i, item))
			}
			records = append(records, domain.RecordFromMap(m, headers))
		}
		return New(records, headers), nil
	default:
		return malformed(headers, mode, fmt.Sprintf("input is %T", data))
	}
}

// LoadJSON decodes a JSON array of objects and loads it with the given mode
func LoadJSON(data []byte, headers []string, mode Mode) (*Transformer, error) {
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return malformed(headers, mode, err.Error())
	}
	return New(records, headers), nil
}

func malformed(headers []string, mode Mode, reason string) (*Transformer, error) {
	if mode == Strict {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, reason)
	}

	t := New(nil, headers)
	t.warnings = append(t.warnings, "malformed input replaced with empty table: "+reason)
	slog.Default().Warn("malformed transformer input, starting empty",
		slog.String("component", "transformer"),
		slog.String("reason", reason))
	return t, nil
}

// Warnings returns the warnings recorded while loading
func (t *Transformer) Warnings() []string {
	return append([]string(nil), t.warnings...)
}

// Headers returns the header list the transformer was built with
func (t *Transformer) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Len returns the number of records currently held
func (t *Transformer) Len() int { return len(t.records) }

// Records returns the current record sequence. The slice is not copied.
func (t *Transformer) Records() []domain.Record { return t.records }

// JSON encodes the current record sequence as a JSON array
func (t *Transformer) JSON() ([]byte, error) {
	if len(t.records) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t.records)
}

// MarshalJSON lets a Transformer be rendered directly
func (t *Transformer) MarshalJSON() ([]byte, error) { return t.JSON() }

// Filter keeps the records for which keep returns true
func (t *Transformer) Filter(keep func(domain.Record) bool) *Transformer {
	out := t.records[:0]
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	clear(t.records[len(out):])
	t.records = out
	return t
}

// Map replaces every record with fn(record). Records that come back
// blank are dropped.
func (t *Transformer) Map(fn func(domain.Record) domain.Record) *Transformer {
	for i, r := range t.records {
		t.records[i] = fn(r)
	}
	t.compact()
	return t
}

// Clone returns an independent copy of the transformer
func (t *Transformer) Clone() *Transformer {
	c := &Transformer{
		records:  make([]domain.Record, len(t.records)),
		headers:  append([]string(nil), t.headers...),
		warnings: append([]string(nil), t.warnings...),
	}
	for i, r := range t.records {
		c.records[i] = r.Clone()
	}
	return c
}

// compact drops blank records in place
func (t *Transformer) compact() {
	t.Filter(func(r domain.Record) bool { return !r.IsBlank() })
}
