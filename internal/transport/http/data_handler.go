package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"trainpulse/internal/config"
	"trainpulse/internal/dataprocessing"
	apierrors "trainpulse/internal/errors"
	"trainpulse/internal/exporter"
	"trainpulse/internal/middleware"
	"trainpulse/internal/reports"
	"trainpulse/internal/services"
	apiv1 "trainpulse/pkg/contracts/api/v1"
	"trainpulse/pkg/contracts/domain"
)

func toQuery(s apiv1.SourceRequest) services.Query {
	return services.Query{SpreadsheetID: s.SpreadsheetID, Range: s.Range, Status: s.Status}
}

// RecordsResponse is the body of GET /records
type RecordsResponse struct {
	Count    int             `json:"count"`
	Headers  []string        `json:"headers"`
	Records  []domain.Record `json:"records"`
	Warnings []string        `json:"warnings,omitempty"`
}

// GroupResponse is one group of GET /groups
type GroupResponse struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

// DataHandler handles data-related HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service      DataServiceInterface
	validator    *middleware.QueryValidator
	exporter     *exporter.Exporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(),
		exporter:     exporter.New(logger),
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/records", h.GetRecords)
	r.Get("/records.csv", h.GetRecordsCSV)
	r.Get("/groups", h.GetGroups)
	r.Get("/aggregate", h.GetAggregate)
	r.Get("/pivot", h.GetPivot)
	r.Get("/timeseries", h.GetTimeSeries)
	r.Get("/statistics", h.GetStatistics)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/stations", h.GetStationReport)
		r.Get("/trains", h.GetTrainReport)
		r.Get("/status", h.GetStatusReport)
	})

	return r
}

// load binds params and fetches a transformer, answering the request
// itself on failure
func (h *DataHandler) load(w http.ResponseWriter, r *http.Request, params interface{}, source *apiv1.SourceRequest) (*dataprocessing.Transformer, bool) {
	if err := h.validator.Bind(r, params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	t, err := h.service.Transformer(r.Context(), toQuery(*source))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return t, true
}

// GetRecords handles GET /records
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	params := apiv1.RecordsRequest{Format: config.FormatJSON}
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}

	records := t.Records()
	if params.Limit > 0 && params.Limit < len(records) {
		records = records[:params.Limit]
	}

	format, _ := exporter.ParseFormat(params.Format)
	if format != config.FormatJSON {
		h.writeExport(w, r, records, format)
		return
	}

	render.JSON(w, r, RecordsResponse{
		Count:    len(records),
		Headers:  t.Headers(),
		Records:  records,
		Warnings: t.Warnings(),
	})
}

// GetRecordsCSV handles GET /records.csv
func (h *DataHandler) GetRecordsCSV(w http.ResponseWriter, r *http.Request) {
	var params apiv1.SourceRequest
	t, ok := h.load(w, r, &params, &params)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType(config.FormatCSV))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(t.CSV()))
}

func (h *DataHandler) writeExport(w http.ResponseWriter, r *http.Request, records []domain.Record, format string) {
	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, records, format); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	name := fmt.Sprintf("%s-%s.%s", config.AppName, time.Now().UTC().Format("20060102-150405"), format)
	w.Header().Set("Content-Type", exporter.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetGroups handles GET /groups
func (h *DataHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	var params apiv1.GroupsRequest
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}

	groups := t.GroupBy(params.By)
	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = GroupResponse{Key: g.Key, Count: len(g.Records), Records: g.Records}
	}
	render.JSON(w, r, out)
}

// GetAggregate handles GET /aggregate
func (h *DataHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	params := apiv1.AggregateRequest{Agg: "sum"}
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}

	agg, _ := dataprocessing.AggregatorByName(params.Agg)
	render.JSON(w, r, t.Aggregate(params.By, []dataprocessing.Aggregation{
		{Field: params.Field, Func: agg},
	}))
}

// GetPivot handles GET /pivot
func (h *DataHandler) GetPivot(w http.ResponseWriter, r *http.Request) {
	params := apiv1.PivotRequest{Value: domain.ColUID, Agg: "count"}
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}

	agg, _ := dataprocessing.AggregatorByName(params.Agg)
	render.JSON(w, r, t.PivotTable(params.Row, params.Column, params.Value, agg))
}

// GetTimeSeries handles GET /timeseries
func (h *DataHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	params := apiv1.TimeSeriesRequest{Date: domain.ColTimestamp, Interval: string(dataprocessing.Day)}
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}

	interval, _ := dataprocessing.ParseInterval(params.Interval)
	points, err := t.TimeSeries(params.Date, params.Value, interval)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewAppValidationError(err.Error()))
		return
	}
	render.JSON(w, r, points)
}

// GetStatistics handles GET /statistics
func (h *DataHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	var params apiv1.StatisticsRequest
	t, ok := h.load(w, r, &params, &params.SourceRequest)
	if !ok {
		return
	}
	render.JSON(w, r, t.CalculateStatistics(params.Field))
}

// GetStationReport handles GET /reports/stations
func (h *DataHandler) GetStationReport(w http.ResponseWriter, r *http.Request) {
	var params apiv1.SourceRequest
	t, ok := h.load(w, r, &params, &params)
	if !ok {
		return
	}
	render.JSON(w, r, reports.StationPerformance(t))
}

// GetTrainReport handles GET /reports/trains
func (h *DataHandler) GetTrainReport(w http.ResponseWriter, r *http.Request) {
	var params apiv1.SourceRequest
	t, ok := h.load(w, r, &params, &params)
	if !ok {
		return
	}
	render.JSON(w, r, reports.TrainActivity(t))
}

// GetStatusReport handles GET /reports/status
func (h *DataHandler) GetStatusReport(w http.ResponseWriter, r *http.Request) {
	var params apiv1.SourceRequest
	t, ok := h.load(w, r, &params, &params)
	if !ok {
		return
	}
	render.JSON(w, r, reports.StatusCounts(t))
}
