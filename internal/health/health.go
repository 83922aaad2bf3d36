// Package health serves the outcome of the last day run and the current deferral state.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/clambin/absensi/internal/deferral"
	"github.com/clambin/absensi/internal/scheduler"
)

type Publisher interface {
	Subscribe() <-chan scheduler.Report
	Unsubscribe(<-chan scheduler.Report)
}

type Deferral interface {
	Status() deferral.State
}

type Health struct {
	Publisher
	Deferral Deferral
	logger   *slog.Logger
	report   scheduler.Report
	updated  bool
	lock     sync.RWMutex
}

type status struct {
	LastRun  scheduler.Report `json:"last_run"`
	Deferral deferral.State   `json:"deferral"`
}

func New(p Publisher, d Deferral, logger *slog.Logger) *Health {
	return &Health{
		Publisher: p,
		Deferral:  d,
		logger:    logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Publisher.Subscribe()
	defer h.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case report := <-ch:
			h.lock.Lock()
			h.report = report
			h.updated = true
			h.lock.Unlock()
		}
	}
}

// ServeHTTP returns 503 until the first day run has completed.
func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if !h.updated {
		http.Error(w, "no day run completed yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(status{LastRun: h.report, Deferral: h.Deferral.Status()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
