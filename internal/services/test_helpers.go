package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trainpulse/internal/sheets"
	"trainpulse/internal/shared/testutil"
	"trainpulse/pkg/contracts/domain"
)

// MockFetcher is a mock for sheets.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchRows(ctx context.Context, spreadsheetID, readRange string) (*sheets.Result, error) {
	args := m.Called(ctx, spreadsheetID, readRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sheets.Result), args.Error(1)
}

func (m *MockFetcher) Check(ctx context.Context, spreadsheetID string) error {
	return m.Called(ctx, spreadsheetID).Error(0)
}

// sampleResult is a fetch result over the fake sheet's data rows
func sampleResult() *sheets.Result {
	rows := testutil.SheetRows()[2:]
	movements := sheets.MapRows(rows)
	return &sheets.Result{
		SpreadsheetID: "sheet-id",
		Range:         "Sheet1!A1:L",
		Rows:          rows,
		Movements:     movements,
		Records:       domain.MovementsToRecords(movements),
		Headers:       domain.MovementHeaders,
	}
}
