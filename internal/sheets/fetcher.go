package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"trainpulse/internal/config"
	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/infrastructure"
	"trainpulse/pkg/contracts/domain"
)

// Fetcher reads movement rows from a spreadsheet
type Fetcher interface {
	// FetchRows reads readRange of the spreadsheet. Empty arguments fall
	// back to the configured defaults.
	FetchRows(ctx context.Context, spreadsheetID, readRange string) (*Result, error)
	// Check verifies the spreadsheet exists and is readable
	Check(ctx context.Context, spreadsheetID string) error
}

// Result is one successful fetch
type Result struct {
	SpreadsheetID string
	Range         string
	// Rows are the raw values with the header rows removed
	Rows      [][]interface{}
	Movements []domain.TrainMovement
	Records   []domain.Record
	Headers   []string
	FetchedAt time.Time
}

// GoogleFetcher implements Fetcher with the Sheets v4 API
type GoogleFetcher struct {
	svc       *sheetsapi.Service
	defaults  config.SheetsConfig
	tracer    trace.Tracer
	metrics   *infrastructure.FetchMetrics
	logger    *slog.Logger
	timeNow   func() time.Time
	headerRow int
}

// Option customizes a GoogleFetcher
type Option func(*GoogleFetcher)

// WithTracer sets the tracer used for fetch spans
func WithTracer(tracer trace.Tracer) Option {
	return func(f *GoogleFetcher) { f.tracer = tracer }
}

// WithMetrics records every fetch on m
func WithMetrics(m *infrastructure.FetchMetrics) Option {
	return func(f *GoogleFetcher) { f.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(f *GoogleFetcher) { f.logger = logger }
}

// ClientOptions derives the Google client options from the configuration:
// credentials from a file or inline JSON, and an endpoint override
func ClientOptions(cfg config.SheetsConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return append(opts, option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
}

// NewGoogleFetcher creates a fetcher from configuration. clientOpts are
// appended after the ones derived from cfg.
func NewGoogleFetcher(ctx context.Context, cfg config.SheetsConfig, clientOpts []option.ClientOption, opts ...Option) (*GoogleFetcher, error) {
	svc, err := sheetsapi.NewService(ctx, append(ClientOptions(cfg), clientOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	f := &GoogleFetcher{
		svc:       svc,
		defaults:  cfg,
		tracer:    noop.NewTracerProvider().Tracer("sheets"),
		logger:    infrastructure.GetLogger(),
		timeNow:   time.Now,
		headerRow: config.HeaderRows,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(slog.String("component", "sheets"))
	return f, nil
}

// Check verifies the spreadsheet exists and is readable
func (f *GoogleFetcher) Check(ctx context.Context, spreadsheetID string) error {
	spreadsheetID = firstNonEmpty(spreadsheetID, f.defaults.SpreadsheetID)
	if spreadsheetID == "" {
		return apperrors.NewMissingParameterError("spreadsheet_id")
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	_, err := f.svc.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, spreadsheetID)
	}
	return nil
}

// FetchRows checks the spreadsheet, reads the range with unformatted
// values and display-formatted dates, drops the title and header rows
// and maps every remaining row onto the movement schema
func (f *GoogleFetcher) FetchRows(ctx context.Context, spreadsheetID, readRange string) (result *Result, err error) {
	spreadsheetID = firstNonEmpty(spreadsheetID, f.defaults.SpreadsheetID)
	readRange = firstNonEmpty(readRange, f.defaults.Range)

	if spreadsheetID == "" {
		return nil, apperrors.NewMissingParameterError("spreadsheet_id")
	}
	if readRange == "" {
		return nil, apperrors.NewMissingParameterError("range")
	}

	ctx, span := f.tracer.Start(ctx, "sheets.fetch_rows",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("sheets.spreadsheet_id", spreadsheetID),
			attribute.String("sheets.range", readRange),
		),
	)
	start := f.timeNow()
	defer func() {
		rows := 0
		if result != nil {
			rows = len(result.Rows)
		}
		f.metrics.Record(ctx, spreadsheetID, f.timeNow().Sub(start), rows, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("sheets.error_kind", string(apperrors.KindOf(err))))
		} else {
			span.SetAttributes(attribute.Int("sheets.rows", rows))
		}
		span.End()
	}()

	if err := f.Check(ctx, spreadsheetID); err != nil {
		f.logger.WarnContext(ctx, "spreadsheet check failed",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("error", err.Error()))
		return nil, err
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	resp, err := f.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		err = classify(err, spreadsheetID)
		f.logger.WarnContext(ctx, "reading values failed",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("range", readRange),
			slog.String("error", err.Error()))
		return nil, err
	}

	data := dropHeaderRows(resp.Values, f.headerRow)
	if len(data) == 0 {
		return nil, apperrors.NewEmptyResultError(fmt.Sprintf("no data rows in %s", readRange)).
			WithContext("spreadsheet_id", spreadsheetID).
			WithContext("range", readRange)
	}

	movements := MapRows(data)
	result = &Result{
		SpreadsheetID: spreadsheetID,
		Range:         readRange,
		Rows:          data,
		Movements:     movements,
		Records:       domain.MovementsToRecords(movements),
		Headers:       append([]string(nil), domain.MovementHeaders...),
		FetchedAt:     f.timeNow(),
	}

	f.logger.InfoContext(ctx, "fetched spreadsheet rows",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.String("range", readRange),
		slog.Int("rows", len(data)),
		slog.Duration("duration", f.timeNow().Sub(start)))

	return result, nil
}

func (f *GoogleFetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.defaults.Timeout > 0 {
		return context.WithTimeout(ctx, f.defaults.Timeout)
	}
	return context.WithCancel(ctx)
}

// classify maps a client error onto the application error kinds
func classify(err error, spreadsheetID string) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusForbidden:
			return apperrors.NewAccessDeniedError(
				"access denied; share the spreadsheet with the service account", err).
				WithContext("spreadsheet_id", spreadsheetID)
		case http.StatusNotFound:
			return apperrors.NewNotFoundError("spreadsheet "+spreadsheetID).
				WithContext("spreadsheet_id", spreadsheetID)
		default:
			msg := gErr.Message
			if msg == "" {
				msg = http.StatusText(gErr.Code)
			}
			return apperrors.NewUpstreamError(msg, err).
				WithContext("spreadsheet_id", spreadsheetID).
				WithContext("status", gErr.Code)
		}
	}
	return apperrors.NewTransportError(err.Error(), err).
		WithContext("spreadsheet_id", spreadsheetID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
