package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/reports"
)

// Snapshot summarises one scheduled refresh
type Snapshot struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Rows      int            `json:"rows"`
	ByStatus  map[string]int `json:"by_status,omitempty"`
	Err       error          `json:"-"`
}

// Watcher re-fetches the sheet on a cron schedule and reports a summary
// of every refresh
type Watcher struct {
	data     *DataService
	query    Query
	schedule string
	onUpdate func(Snapshot)
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
	last Snapshot
}

// NewWatcher validates schedule and creates a stopped watcher. onUpdate,
// when set, receives every snapshot.
func NewWatcher(data *DataService, schedule string, q Query, onUpdate func(Snapshot), logger *slog.Logger) (*Watcher, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid watch schedule %q: %v", schedule, err))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		data:     data,
		query:    q,
		schedule: schedule,
		onUpdate: onUpdate,
		logger:   logger.With(slog.String("component", "watcher")),
	}, nil
}

// Refresh fetches once and records the snapshot
func (w *Watcher) Refresh(ctx context.Context) Snapshot {
	snap := Snapshot{FetchedAt: time.Now()}

	t, err := w.data.Transformer(ctx, w.query)
	if err != nil {
		snap.Err = err
		w.logger.WarnContext(ctx, "refresh failed",
			slog.String("kind", string(apperrors.KindOf(err))),
			slog.String("error", err.Error()))
	} else {
		snap.Rows = t.Len()
		snap.ByStatus = reports.StatusCounts(t)
		w.logger.InfoContext(ctx, "refreshed",
			slog.Int("rows", snap.Rows),
			slog.Any("by_status", snap.ByStatus))
	}

	w.mu.Lock()
	w.last = snap
	w.mu.Unlock()

	if w.onUpdate != nil {
		w.onUpdate(snap)
	}
	return snap
}

// Last returns the latest snapshot
func (w *Watcher) Last() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Start schedules refreshes. Jobs run with ctx; a refresh still running
// when the next tick fires causes that tick to be skipped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.Refresh(ctx) }); err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}
	c.Start()
	w.cron = c

	w.logger.InfoContext(ctx, "watcher started", slog.String("schedule", w.schedule))
	return nil
}

// Stop cancels future refreshes and waits for a running one to finish
func (w *Watcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	w.logger.Info("watcher stopped")
}

// Run refreshes immediately, then on schedule until ctx ends
func (w *Watcher) Run(ctx context.Context) error {
	w.Refresh(ctx)
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}
