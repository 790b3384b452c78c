package sheets

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"trainpulse/internal/config"
	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/shared/testutil"
	"trainpulse/pkg/contracts/domain"
)

func newTestFetcher(t *testing.T, fake *testutil.FakeSheets) (*GoogleFetcher, *testutil.BufferedSlogHandler) {
	t.Helper()

	logger, logs := testutil.NewTestLogger(t)
	cfg := config.Default().Sheets
	cfg.Timeout = 5 * time.Second

	f, err := NewGoogleFetcher(context.Background(), cfg,
		[]option.ClientOption{option.WithEndpoint(fake.Endpoint()), option.WithoutAuthentication()},
		WithLogger(logger),
	)
	require.NoError(t, err)
	return f, logs
}

func TestFetchRows_MapsRowsOntoSchema(t *testing.T) {
	fake := testutil.NewFakeSheets(t, testutil.SheetRows())
	f, logs := newTestFetcher(t, fake)

	res, err := f.FetchRows(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSpreadsheetID, res.SpreadsheetID)
	assert.Equal(t, config.DefaultRange, res.Range)
	assert.Equal(t, domain.MovementHeaders, res.Headers)
	require.Len(t, res.Rows, 5, "title and header rows are dropped")
	require.Len(t, res.Movements, 5)
	require.Len(t, res.Records, 5)

	first := res.Movements[0]
	assert.Equal(t, "12951", first.TrainName.String())
	assert.Equal(t, "NDLS", first.Station.String())
	assert.Equal(t, domain.CellNumber, first.SlNo.Kind(), "numbers stay numeric")
	assert.Equal(t, 1.0, first.SlNo.Number())

	short := res.Movements[4]
	assert.Equal(t, "12952", short.TrainName.String())
	assert.Equal(t, domain.CellString, short.Station.Kind())
	assert.Equal(t, "", short.Station.String(), "missing columns become empty strings")
	assert.Equal(t, "", short.UID.String())

	assert.Equal(t, 1, fake.MetadataCalls())
	assert.Equal(t, 1, fake.ValuesCalls())

	q, err := url.ParseQuery(fake.LastValuesQuery())
	require.NoError(t, err)
	assert.Equal(t, "UNFORMATTED_VALUE", q.Get("valueRenderOption"))
	assert.Equal(t, "FORMATTED_STRING", q.Get("dateTimeRenderOption"))

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "fetched spreadsheet rows")
	testutil.AssertLogAttr(t, logs, "component", "sheets")
}

func TestFetchRows_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		valuesStatus int
		rows         [][]interface{}
		want         apperrors.Kind
		wantValues   int
	}{
		{name: "forbidden", status: http.StatusForbidden, want: apperrors.KindAccessDenied},
		{name: "missing spreadsheet", status: http.StatusNotFound, want: apperrors.KindNotFound},
		{name: "other api fault", status: http.StatusConflict, want: apperrors.KindUpstreamAPI},
		{name: "bad range", valuesStatus: http.StatusBadRequest, want: apperrors.KindUpstreamAPI, wantValues: 1},
		{name: "only header rows", rows: testutil.SheetRows()[:2], want: apperrors.KindEmptyResult, wantValues: 1},
		{name: "no rows at all", rows: nil, want: apperrors.KindEmptyResult, wantValues: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeSheets(t, tt.rows)
			fake.Status = tt.status
			fake.ValuesStatus = tt.valuesStatus
			f, _ := newTestFetcher(t, fake)

			res, err := f.FetchRows(context.Background(), "sheet-id", "Sheet1!A1:L")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
			assert.Equal(t, tt.wantValues, fake.ValuesCalls(), "no retries and no read after a failed check")
		})
	}
}

func TestFetchRows_TransportError(t *testing.T) {
	fake := testutil.NewFakeSheets(t, testutil.SheetRows())
	f, _ := newTestFetcher(t, fake)
	fake.Close()

	_, err := f.FetchRows(context.Background(), "sheet-id", "Sheet1!A1:L")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestFetchRows_CancelledContext(t *testing.T) {
	fake := testutil.NewFakeSheets(t, testutil.SheetRows())
	f, _ := newTestFetcher(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchRows(ctx, "sheet-id", "Sheet1!A1:L")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchRows_MissingParameters(t *testing.T) {
	fake := testutil.NewFakeSheets(t, testutil.SheetRows())
	f, _ := newTestFetcher(t, fake)
	f.defaults.SpreadsheetID = ""
	f.defaults.Range = ""

	_, err := f.FetchRows(context.Background(), " ", "Sheet1!A1:L")
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

	_, err = f.FetchRows(context.Background(), "sheet-id", "")
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

	assert.Zero(t, fake.MetadataCalls())
}

func TestCheck(t *testing.T) {
	fake := testutil.NewFakeSheets(t, nil)
	f, _ := newTestFetcher(t, fake)

	assert.NoError(t, f.Check(context.Background(), "sheet-id"))

	fake.SetStatus(http.StatusNotFound)
	assert.ErrorIs(t, f.Check(context.Background(), "sheet-id"), apperrors.ErrNotFound)
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, ClientOptions(config.SheetsConfig{}), 1)
	assert.Len(t, ClientOptions(config.SheetsConfig{CredentialsFile: "key.json", Endpoint: "http://localhost/"}), 3)
	assert.Len(t, ClientOptions(config.SheetsConfig{CredentialsJSON: "{}"}), 2)
}
