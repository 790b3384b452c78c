package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"trainpulse/internal/config"
	"trainpulse/internal/dataprocessing"
	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/reports"
	"trainpulse/internal/sheets"
)

// Query selects the rows a caller wants. Empty spreadsheet and range
// fall back to the configured sheet.
type Query struct {
	SpreadsheetID string
	Range         string
	Status        string
}

func (q Query) key() string {
	return q.SpreadsheetID + "|" + q.Range
}

// DataService fetches movement rows and hands out transformers over them.
// Concurrent fetches of the same sheet and range share one upstream call
// and upstream calls are paced to the configured requests per minute.
type DataService struct {
	fetcher sheets.Fetcher
	limiter *rate.Limiter
	flight  singleflight.Group
	mode    dataprocessing.Mode
	timeout time.Duration
	logger  *slog.Logger
}

// NewDataService creates a data service over fetcher
func NewDataService(fetcher sheets.Fetcher, cfg config.SheetsConfig, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(cfg.RequestsPerMinute / 60)
		burst = max(1, int(cfg.RequestsPerMinute/10))
	}

	return &DataService{
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, burst),
		mode:    dataprocessing.Strict,
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("component", "data_service")),
	}
}

// Fetch reads the rows for q. A shared fetch outlives the caller that
// started it; each caller stops waiting when its own context ends.
func (s *DataService) Fetch(ctx context.Context, q Query) (*sheets.Result, error) {
	ch := s.flight.DoChan(q.key(), func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if err := s.waitQuota(fetchCtx); err != nil {
			return nil, apperrors.NewTransportError("waiting for upstream quota", err)
		}
		return s.fetcher.FetchRows(fetchCtx, q.SpreadsheetID, q.Range)
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.NewTransportError("fetch abandoned", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "shared in-flight fetch",
				slog.String("spreadsheet_id", q.SpreadsheetID),
				slog.String("range", q.Range))
		}
		return res.Val.(*sheets.Result), nil
	}
}

// waitQuota blocks until the limiter grants a call, at most the
// configured sheets timeout when one is set
func (s *DataService) waitQuota(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.limiter.Wait(ctx)
}

// Transformer fetches q and returns a fresh transformer over the rows,
// already narrowed to q.Status when set. Every call gets its own records
// so callers may mutate freely.
func (s *DataService) Transformer(ctx context.Context, q Query) (*dataprocessing.Transformer, error) {
	res, err := s.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	t, err := dataprocessing.Load(res.Movements, res.Headers, s.mode)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.KindInternal, "building table", err)
	}
	if status := strings.TrimSpace(q.Status); status != "" {
		t.Filter(reports.ByStatus(status))
	}
	return t, nil
}

// Check verifies the spreadsheet is reachable
func (s *DataService) Check(ctx context.Context, spreadsheetID string) error {
	return s.fetcher.Check(ctx, spreadsheetID)
}
