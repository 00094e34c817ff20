package avatar

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var (
	refreshesDone   = metrics.GetOrCreateCounter("avatar_background_refreshes_total")
	refreshFailures = metrics.GetOrCreateCounter("avatar_background_refresh_failures_total")
	refreshDropped  = metrics.GetOrCreateCounter("avatar_background_refresh_dropped_total")
)

const (
	refreshQueueLen = 64
	refreshTimeout  = 30 * time.Second
)

// RefreshStats is a snapshot of background refresh activity.
type RefreshStats struct {
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

// Refresher runs stale-entry refreshes on a single detached worker. Scheduling
// never blocks the response path: a full queue drops the request, which only
// delays the refresh until the next stale hit. Failures are logged, never
// surfaced to any caller.
type Refresher struct {
	refresh func(context.Context, Params) error
	queue   chan Params
	logger  *slog.Logger
	wg      sync.WaitGroup

	completed atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

func newRefresher(refresh func(context.Context, Params) error, logger *slog.Logger) *Refresher {
	r := &Refresher{
		refresh: refresh,
		queue:   make(chan Params, refreshQueueLen),
		logger:  logger,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// schedule submits a refresh for p. Fire-and-forget.
func (r *Refresher) schedule(p Params) {
	select {
	case r.queue <- p:
	default:
		refreshDropped.Inc()
		r.dropped.Add(1)
		r.logger.Debug("refresh queue full, dropping",
			"user_id", p.UserID, "resolution", p.Resolution)
	}
}

func (r *Refresher) run() {
	defer r.wg.Done()
	for p := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		err := r.refresh(ctx, p)
		cancel()
		if err != nil {
			refreshFailures.Inc()
			r.failed.Add(1)
			r.logger.Warn("background refresh failed",
				"user_id", p.UserID, "resolution", p.Resolution, "color", p.Color, "error", err)
			continue
		}
		refreshesDone.Inc()
		r.completed.Add(1)
		r.logger.Debug("background refresh completed",
			"user_id", p.UserID, "resolution", p.Resolution, "color", p.Color)
	}
}

func (r *Refresher) close() {
	close(r.queue)
	r.wg.Wait()
}

func (r *Refresher) stats() RefreshStats {
	return RefreshStats{
		Completed: r.completed.Load(),
		Failed:    r.failed.Load(),
		Dropped:   r.dropped.Load(),
	}
}
