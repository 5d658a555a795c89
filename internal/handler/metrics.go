package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/carsharing/carsharing/internal/metrics"
)

// MetricsHandler serves the in-memory counters in Prometheus text format.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

type exposedMetric struct {
	name  string
	kind  string
	help  string
	value string
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeExposition(w, []exposedMetric{
		{"carsharing_cars_created_total", "counter", "Cars inserted into the car store.", fmt.Sprint(snap.CarsCreated)},
		{"carsharing_cars_updated_total", "counter", "Cars replaced in the car store.", fmt.Sprint(snap.CarsUpdated)},
		{"carsharing_cars_deleted_total", "counter", "Cars deleted from the car store.", fmt.Sprint(snap.CarsDeleted)},
		{"carsharing_trips_added_total", "counter", "Trips appended to the ledger.", fmt.Sprint(snap.TripsAdded)},
		{"carsharing_ledger_save_duration_seconds_count", "counter", "Ledger rewrites.", fmt.Sprint(snap.LedgerSaveCount)},
		{"carsharing_ledger_save_duration_seconds_sum", "counter", "Seconds spent rewriting the ledger.", fmt.Sprintf("%.6f", float64(snap.LedgerSaveTotalNs)/1e9)},
	})
}

func writeExposition(w io.Writer, ms []exposedMetric) {
	for _, m := range ms {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %s\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}
