package dataprocessing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainpulse/pkg/contracts/domain"
)

func movement(train, station, status string, delay any) domain.Record {
	return domain.NewRecord(
		domain.Col("Train Name", train),
		domain.Col("Station", station),
		domain.Col("Status", status),
		domain.Col("Delay", delay),
	)
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		movement("12951", "NDLS", "TER", 10),
		domain.NewRecord(domain.Col("Train Name", ""), domain.Col("Station", nil)),
		movement("12952", "BCT", "HO", 5),
		movement("12951", "BRC", "HO", "n/a"),
		domain.NewRecord(),
		movement("22221", "NDLS", "TER", 20),
	}
}

func TestNew_DropsBlankRecords(t *testing.T) {
	tr := New(sampleRecords(), nil)

	require.Equal(t, 4, tr.Len())
	for _, r := range tr.Records() {
		assert.False(t, r.IsBlank())
	}

	before := tr.Len()
	tr.compact()
	assert.Equal(t, before, tr.Len(), "re-filtering must be a no-op")
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	in := []domain.Record{movement("1", "A", "TER", 1), movement("2", "B", "HO", 2)}
	tr := New(in, nil)

	tr.Filter(func(r domain.Record) bool { return r.Get("Station").String() == "B" })

	assert.Equal(t, "A", in[0].Get("Station").String())
	assert.Equal(t, 1, tr.Len())
}

func TestMap_DoesNotWriteThroughToInput(t *testing.T) {
	in := []domain.Record{domain.NewRecord(domain.Col("a", 1), domain.Col("b", 2))}
	tr := New(in, nil)

	tr.Map(func(r domain.Record) domain.Record {
		r.Set("a", domain.Number(99))
		r.Set("extra", domain.String("x"))
		return r
	})

	assert.Equal(t, float64(1), in[0].Get("a").Value())
	assert.False(t, in[0].Has("extra"))
	assert.Equal(t, []string{"a", "b"}, in[0].Keys())

	out := tr.Records()[0]
	assert.Equal(t, float64(99), out.Get("a").Value())
	assert.Equal(t, []string{"a", "b", "extra"}, out.Keys())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		data      any
		mode      Mode
		wantLen   int
		wantErr   bool
		wantWarns int
	}{
		{"nil", nil, Lenient, 0, false, 0},
		{"records", sampleRecords(), Strict, 4, false, 0},
		{"movements", []domain.TrainMovement{domain.MovementFromRow([]any{"t", "", "1"})}, Strict, 1, false, 0},
		{"maps", []map[string]any{{"Station": "NDLS"}, {"Station": ""}}, Strict, 1, false, 0},
		{"any slice of maps", []any{map[string]any{"Station": "NDLS"}}, Strict, 1, false, 0},
		{"object lenient", map[string]any{"Station": "NDLS"}, Lenient, 0, false, 1},
		{"object strict", map[string]any{"Station": "NDLS"}, Strict, 0, true, 0},
		{"mixed slice lenient", []any{map[string]any{"a": 1}, 3}, Lenient, 0, false, 1},
		{"string strict", "rows", Strict, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Load(tt.data, domain.MovementHeaders, tt.mode)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, tr.Len())
			assert.Len(t, tr.Warnings(), tt.wantWarns)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	tr, err := LoadJSON([]byte(`[{"Station":"NDLS","Delay":5},{"Station":""}]`), nil, Strict)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())

	_, err = LoadJSON([]byte(`{"Station":"NDLS"}`), nil, Strict)
	assert.ErrorIs(t, err, ErrMalformedInput)

	tr, err = LoadJSON([]byte(`{"Station":"NDLS"}`), nil, Lenient)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
	assert.NotEmpty(t, tr.Warnings())
}

func TestFilterAndMap_ChainOnSameInstance(t *testing.T) {
	tr := New(sampleRecords(), nil)

	got := tr.
		Filter(func(r domain.Record) bool { return r.Get("Status").String() == "TER" }).
		Map(func(r domain.Record) domain.Record {
			r = r.Clone()
			r.Set("Delay", domain.Number(r.Get("Delay").Number()*2))
			return r
		})

	assert.Same(t, tr, got)
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, 20.0, tr.Records()[0].Get("Delay").Number())
	assert.Equal(t, 40.0, tr.Records()[1].Get("Delay").Number())
}

func TestMap_DropsRecordsThatBecomeBlank(t *testing.T) {
	tr := New(sampleRecords(), nil)
	tr.Map(func(r domain.Record) domain.Record {
		if r.Get("Station").String() == "BCT" {
			return domain.NewRecord(domain.Col("Station", ""))
		}
		return r
	})

	assert.Equal(t, 3, tr.Len())
	for _, r := range tr.Records() {
		assert.False(t, r.IsBlank())
	}
}

func TestClone_IsIndependent(t *testing.T) {
	tr := New(sampleRecords(), []string{"Train Name"})
	c := tr.Clone()

	c.Filter(func(domain.Record) bool { return false })
	tr.Records()[0].Set("Station", domain.String("changed"))

	assert.Equal(t, 4, tr.Len())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{"Train Name"}, c.Headers())
}

func TestJSON(t *testing.T) {
	data, err := New(nil, nil).JSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	tr := New([]domain.Record{movement("12951", "NDLS", "TER", 10)}, nil)
	data, err = json.Marshal(tr)
	require.NoError(t, err)
	assert.Equal(t, `[{"Train Name":"12951","Station":"NDLS","Status":"TER","Delay":10}]`, string(data))
}
