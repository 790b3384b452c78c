package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind CellKind
		text string
	}{
		{"nil", nil, CellEmpty, ""},
		{"string", "TER", CellString, "TER"},
		{"float", 12.5, CellNumber, "12.5"},
		{"int", 42, CellNumber, "42"},
		{"bool", true, CellString, "true"},
		{"json number", json.Number("7"), CellNumber, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CellOf(tt.in)
			assert.Equal(t, tt.kind, c.Kind())
			assert.Equal(t, tt.text, c.String())
		})
	}
}

func TestCell_IsBlank(t *testing.T) {
	assert.True(t, Empty().IsBlank())
	assert.True(t, String("").IsBlank())
	assert.False(t, String(" ").IsBlank())
	assert.False(t, Number(0).IsBlank())
}

func TestCell_Float(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
		ok   bool
	}{
		{"number", Number(3), 3, true},
		{"numeric string", String(" 4.5 "), 4.5, true},
		{"negative string", String("-2"), -2, true},
		{"text", String("late"), 0, false},
		{"empty string", String(""), 0, false},
		{"empty", Empty(), 0, false},
		{"nan", Number(math.NaN()), 0, false},
		{"infinite number", Number(math.Inf(1)), 0, false},
		{"exponent string", String("1.5e2"), 150, true},
		{"inf string", String("Inf"), 0, false},
		{"infinity string", String("-infinity"), 0, false},
		{"nan string", String("NaN"), 0, false},
		{"hex float string", String("0x1p4"), 0, false},
		{"hex int string", String("0x10"), 0, false},
		{"overflowing string", String("1e400"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, tt.cell.Number())
		})
	}
}

func TestCell_StringSpecialNumbers(t *testing.T) {
	assert.Equal(t, "NaN", Number(math.NaN()).String())
	assert.Equal(t, "Infinity", Number(math.Inf(1)).String())
	assert.Equal(t, "-Infinity", Number(math.Inf(-1)).String())
	assert.Equal(t, "1000000", Number(1e6).String())
}

func TestCell_JSON(t *testing.T) {
	data, err := json.Marshal([]Cell{String("a"), Number(2), Empty(), Number(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `["a",2,null,null]`, string(data))

	var cells []Cell
	require.NoError(t, json.Unmarshal([]byte(`["x", 1.5, null, false]`), &cells))
	require.Len(t, cells, 4)
	assert.True(t, cells[0].Equal(String("x")))
	assert.True(t, cells[1].Equal(Number(1.5)))
	assert.True(t, cells[2].IsEmpty())
	assert.True(t, cells[3].Equal(String("false")))

	var c Cell
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &c))
}
