package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single named value used to build records
type Field struct {
	Name  string
	Value Cell
}

// Col builds a Field, converting v with CellOf
func Col(name string, v any) Field {
	return Field{Name: name, Value: CellOf(v)}
}

// Record is one row of a dataset: an ordered mapping from column name to
// Cell. Column order is insertion order. Reading a column that is not
// present yields an empty cell.
type Record struct {
	keys   []string
	values map[string]Cell
}

// NewRecord builds a record from fields in order. A repeated name
// overwrites the earlier value but keeps its position.
func NewRecord(fields ...Field) Record {
	r := Record{
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]Cell, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// RecordFromMap builds a record from a decoded JSON object. Keys are
// taken in the order given by keys; keys missing from m are skipped and
// keys of m not listed are appended in map order.
func RecordFromMap(m map[string]any, keys []string) Record {
	r := NewRecord()
	for _, k := range keys {
		if v, ok := m[k]; ok {
			r.Set(k, CellOf(v))
		}
	}
	for k, v := range m {
		if !r.Has(k) {
			r.Set(k, CellOf(v))
		}
	}
	return r
}

// Get returns the cell stored under name
func (r Record) Get(name string) Cell {
	if r.values == nil {
		return Empty()
	}
	return r.values[name]
}

// Has reports whether the record carries the named column
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set stores v under name, appending the column if it is new
func (r *Record) Set(name string, v Cell) {
	if r.values == nil {
		r.values = make(map[string]Cell)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Delete removes a column
func (r *Record) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, k := range r.keys {
		if k == name {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the column names in order
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns
func (r Record) Len() int { return len(r.keys) }

// IsBlank reports whether every value is empty or the empty string.
// A record with no columns is blank.
func (r Record) IsBlank() bool {
	for _, k := range r.keys {
		if !r.values[k].IsBlank() {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with r
func (r Record) Clone() Record {
	out := Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Cell, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Map converts the record to a plain map of Go values
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k].Value()
	}
	return out
}

// MarshalJSON encodes the record as a JSON object preserving column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	out := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode record: expected key, got %v", tok)
		}
		var cell Cell
		if err := dec.Decode(&cell); err != nil {
			return fmt.Errorf("decode record field %q: %w", key, err)
		}
		out.Set(key, cell)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	*r = out
	return nil
}
