package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// CellKind identifies which variant a Cell holds
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// String returns the kind name
func (k CellKind) String() string {
	switch k {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value: a string, a number, or nothing.
// The zero value is an empty cell.
type Cell struct {
	kind CellKind
	str  string
	num  float64
}

// Empty returns an empty cell
func Empty() Cell { return Cell{} }

// String returns a string cell
func String(s string) Cell { return Cell{kind: CellString, str: s} }

// Number returns a numeric cell
func Number(f float64) Cell { return Cell{kind: CellNumber, num: f} }

// CellOf converts an arbitrary decoded value into a Cell.
// nil becomes empty, numeric Go types become numbers and everything
// else is stringified.
func CellOf(v any) Cell {
	switch val := v.(type) {
	case nil:
		return Empty()
	case Cell:
		return val
	case string:
		return String(val)
	case float64:
		return Number(val)
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Number(cast.ToFloat64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Number(f)
		}
		return String(val.String())
	case bool:
		return String(strconv.FormatBool(val))
	default:
		return String(cast.ToString(val))
	}
}

// Kind reports the variant held by the cell
func (c Cell) Kind() CellKind { return c.kind }

// IsEmpty reports whether the cell holds no value at all
func (c Cell) IsEmpty() bool { return c.kind == CellEmpty }

// IsBlank reports whether the cell is empty or holds the empty string
func (c Cell) IsBlank() bool {
	return c.kind == CellEmpty || (c.kind == CellString && c.str == "")
}

// String renders the cell as text. Numbers use the shortest
// representation that round-trips.
func (c Cell) String() string {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return formatNumber(c.num)
	default:
		return ""
	}
}

// Float parses the cell as a number. The second result is false for
// empty cells, NaN and infinities, and strings that are not plain decimal
// numbers ("Inf", "nan" and hex forms such as "0x1p4" are text).
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case CellNumber:
		if !isFinite(c.num) {
			return 0, false
		}
		return c.num, true
	case CellString:
		s := strings.TrimSpace(c.str)
		if !isDecimal(s) {
			return 0, false
		}
		f, err := cast.ToFloat64E(s)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isDecimal reports whether s only uses the characters of a decimal
// number with an optional exponent
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// Number coerces the cell to a number, using 0 when it is not numeric
func (c Cell) Number() float64 {
	f, _ := c.Float()
	return f
}

// Value returns the underlying Go value (string, float64 or nil)
func (c Cell) Value() any {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return c.num
	default:
		return nil
	}
}

// Equal reports whether two cells hold the same variant and value
func (c Cell) Equal(other Cell) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case CellString:
		return c.str == other.str
	case CellNumber:
		return c.num == other.num || (math.IsNaN(c.num) && math.IsNaN(other.num))
	default:
		return true
	}
}

// MarshalJSON encodes numbers as JSON numbers, strings as strings and
// empty cells as null. NaN and infinities have no JSON form and become null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes null, strings, numbers and booleans
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Empty()
		return nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode cell: %w", err)
	}

	switch v.(type) {
	case map[string]any, []any:
		return fmt.Errorf("decode cell: unsupported JSON value %s", string(data))
	}
	*c = CellOf(v)
	return nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
