package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainpulse/internal/dataprocessing"
	"trainpulse/internal/shared/testutil"
	"trainpulse/pkg/contracts/domain"
)

func sampleTransformer() *dataprocessing.Transformer {
	var records []domain.Record
	for _, row := range testutil.SheetRows()[2:] {
		records = append(records, domain.MovementFromRow(row).Record())
	}
	return dataprocessing.New(records, domain.MovementHeaders)
}

func TestByStatus(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{"TER", 2},
		{" ter ", 2},
		{"HO", 2},
		{"XX", 0},
		{"", 5},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := sampleTransformer().Filter(ByStatus(tt.status))
			assert.Equal(t, tt.want, got.Len())
		})
	}
}

func TestStationPerformance(t *testing.T) {
	got := StationPerformance(sampleTransformer())
	require.Len(t, got, 4)

	assert.Equal(t, StationSummary{Station: "NDLS", Total: 2, Trains: 2, ByStatus: map[string]int{"TER": 2}}, got[0])
	assert.Equal(t, StationSummary{Station: "BCT", Total: 1, Trains: 1, ByStatus: map[string]int{"HO": 1}}, got[1])
	assert.Equal(t, "BRC", got[2].Station)
	assert.Equal(t, "", got[3].Station, "rows without a station form their own group")
	assert.Equal(t, 1, got[3].Total)
}

func TestStationPerformance_Empty(t *testing.T) {
	assert.Empty(t, StationPerformance(dataprocessing.New(nil, nil)))
}

func TestTrainActivity(t *testing.T) {
	got := TrainActivity(sampleTransformer())
	require.Len(t, got, 3)

	assert.Equal(t, TrainSummary{
		Train:       "12951",
		Movements:   2,
		Stations:    2,
		LastStation: "BRC",
		LastStatus:  "HO",
		LastSeen:    "2024-01-03T11:15:00Z",
	}, got[0])

	assert.Equal(t, "12952", got[1].Train)
	assert.Equal(t, 2, got[1].Movements)
	assert.Equal(t, "", got[1].LastStation)
	assert.Equal(t, "2024-01-04T07:10:00Z", got[1].LastSeen)

	assert.Equal(t, "22221", got[2].Train)
	assert.Equal(t, "NDLS", got[2].LastStation)
}

func TestTrainActivity_UndatedFallsBackToOrder(t *testing.T) {
	tr := dataprocessing.New([]domain.Record{
		domain.NewRecord(domain.Col(domain.ColTrainName, "1"), domain.Col(domain.ColStation, "A"), domain.Col(domain.ColTimestamp, "soon")),
		domain.NewRecord(domain.Col(domain.ColTrainName, "1"), domain.Col(domain.ColStation, "B"), domain.Col(domain.ColTimestamp, "later")),
	}, nil)

	got := TrainActivity(tr)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].LastStation)
	assert.Empty(t, got[0].LastSeen)
}

func TestStatusCounts(t *testing.T) {
	assert.Equal(t, map[string]int{"TER": 2, "HO": 2, "": 1}, StatusCounts(sampleTransformer()))
}
