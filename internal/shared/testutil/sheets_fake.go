package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// SheetRows returns a sheet body as the Sheets API would send it: a title
// row, a header row and five movement rows, one of them short.
func SheetRows() [][]interface{} {
	return [][]interface{}{
		{"Daily Train Movement Register"},
		{"timestamp", "", "BD No", "Sl No", "Train Name", "LOCO", "Station", "Status", "Time", "Remarks", "FOISID", "uid"},
		{"1/2/2024 08:00:00", "", "BD-1", float64(1), "12951", "WAP7-30251", "NDLS", "TER", "08:00", "on time", "F-100", "u-1"},
		{"1/2/2024 09:30:00", "", "BD-1", float64(2), "12952", "WAP7-30252", "BCT", "HO", "09:30", "crew change, delayed", "F-101", "u-2"},
		{"1/3/2024 11:15:00", "", "BD-2", float64(3), "12951", "WAP7-30251", "BRC", "HO", "11:15", "", "F-102", "u-3"},
		{"1/4/2024 06:45:00", "", "BD-2", float64(4), "22221", "WAG9-31001", "NDLS", "TER", "06:45", "late", "F-103", "u-4"},
		{"1/4/2024 07:10:00", "", "BD-3", float64(5), "12952", "WAP7-30252"},
	}
}

// FakeSheets is an httptest server speaking the subset of the Sheets v4
// REST API used by the fetcher: spreadsheets.get and
// spreadsheets.values.get.
type FakeSheets struct {
	*httptest.Server

	mu sync.Mutex
	// Rows served by values.get
	Rows [][]interface{}
	// Status, when non-zero, fails every call with a Google style error body
	Status int
	// ValuesStatus fails only values.get
	ValuesStatus int

	metaCalls   atomic.Int32
	valuesCalls atomic.Int32
	lastQuery   string
}

// NewFakeSheets starts a fake serving rows and closes it when the test ends
func NewFakeSheets(t *testing.T, rows [][]interface{}) *FakeSheets {
	t.Helper()

	f := &FakeSheets{Rows: rows}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Endpoint is the base URL to hand to option.WithEndpoint
func (f *FakeSheets) Endpoint() string {
	return f.URL + "/"
}

// SetRows replaces the served rows
func (f *FakeSheets) SetRows(rows [][]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows = rows
}

// SetStatus makes every call fail with status, or succeed again for 0
func (f *FakeSheets) SetStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status = status
}

// MetadataCalls counts spreadsheets.get requests
func (f *FakeSheets) MetadataCalls() int { return int(f.metaCalls.Load()) }

// ValuesCalls counts spreadsheets.values.get requests
func (f *FakeSheets) ValuesCalls() int { return int(f.valuesCalls.Load()) }

// LastValuesQuery is the raw query string of the latest values.get call
func (f *FakeSheets) LastValuesQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *FakeSheets) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, valuesStatus, rows := f.Status, f.ValuesStatus, f.Rows
	f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	id, rng, isValues := strings.Cut(path, "/values/")

	if isValues {
		f.valuesCalls.Add(1)
		f.mu.Lock()
		f.lastQuery = r.URL.RawQuery
		f.mu.Unlock()
		if status == 0 {
			status = valuesStatus
		}
	} else {
		f.metaCalls.Add(1)
	}

	if status != 0 {
		writeGoogleError(w, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !isValues {
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": id})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"range":          rng,
		"majorDimension": "ROWS",
		"values":         rows,
	})
}

func writeGoogleError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": fmt.Sprintf("fake sheets error %d", status),
			"status":  http.StatusText(status),
		},
	})
}
