package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainpulse/pkg/contracts/domain"
)

func dated(date string, value any) domain.Record {
	return domain.NewRecord(domain.Col("date", date), domain.Col("value", value))
}

func TestTimeSeries_DailyFillsGaps(t *testing.T) {
	tr := New([]domain.Record{
		dated("2024-01-03", 20),
		dated("2024-01-01", 10),
	}, nil)

	points, err := tr.TimeSeries("date", "value", Day)
	require.NoError(t, err)

	assert.Equal(t, []TimePoint{
		{Period: "2024-01-01", Value: 10, Count: 1},
		{Period: "2024-01-02", Value: 0, Count: 0},
		{Period: "2024-01-03", Value: 20, Count: 1},
	}, points)

	// the transformer's own order is untouched
	assert.Equal(t, "2024-01-03", tr.Records()[0].Get("date").String())
}

func TestTimeSeries_Weekly(t *testing.T) {
	tr := New([]domain.Record{
		dated("2024-01-01", 1),
		dated("2024-01-07", 2),
		dated("2024-01-08", 4),
		dated("2024-01-20", "x"),
	}, nil)

	points, err := tr.TimeSeries("date", "value", Week)
	require.NoError(t, err)

	assert.Equal(t, []TimePoint{
		{Period: "2024-01-01", Value: 3, Count: 2},
		{Period: "2024-01-08", Value: 4, Count: 1},
		{Period: "2024-01-15", Value: 0, Count: 1},
	}, points)
}

func TestTimeSeries_MonthlyUsesCalendarMonths(t *testing.T) {
	tr := New([]domain.Record{
		dated("2024-01-15", 1),
		dated("2024-02-14", 2),
		dated("2024-02-15", 4),
		dated("2024-03-20 08:30:00", 8),
	}, nil)

	points, err := tr.TimeSeries("date", "value", Month)
	require.NoError(t, err)

	assert.Equal(t, []TimePoint{
		{Period: "2024-01-15", Value: 3, Count: 2},
		{Period: "2024-02-15", Value: 4, Count: 1},
		{Period: "2024-03-15", Value: 8, Count: 1},
	}, points)
}

func TestTimeSeries_SkipsUnparseableDates(t *testing.T) {
	tr := New([]domain.Record{
		dated("not a date", 100),
		dated("1/2/2024 10:00:00", 5),
	}, nil)

	points, err := tr.TimeSeries("date", "value", Day)
	require.NoError(t, err)
	assert.Equal(t, []TimePoint{{Period: "2024-01-02", Value: 5, Count: 1}}, points)
}

func TestTimeSeries_EmptyAndInvalidInterval(t *testing.T) {
	points, err := New(nil, nil).TimeSeries("date", "value", Day)
	require.NoError(t, err)
	assert.Empty(t, points)

	_, err = New(nil, nil).TimeSeries("date", "value", Interval("hour"))
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval(" Month ")
	require.NoError(t, err)
	assert.Equal(t, Month, iv)

	_, err = ParseInterval("fortnight")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want time.Time
		ok   bool
	}{
		{"iso date", domain.String("2024-03-05"), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", domain.String("2024-03-05T10:00:00+05:30"), time.Date(2024, 3, 5, 4, 30, 0, 0, time.UTC), true},
		{"sheet display", domain.String("3/5/2024 14:15:00"), time.Date(2024, 3, 5, 14, 15, 0, 0, time.UTC), true},
		{"serial number", domain.Number(45356), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"blank", domain.String(""), time.Time{}, false},
		{"empty", domain.Empty(), time.Time{}, false},
		{"garbage", domain.String("soon"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}
