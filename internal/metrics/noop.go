package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCarCreated is a no-op.
func (n *NoopRecorder) IncCarCreated() {}

// IncCarUpdated is a no-op.
func (n *NoopRecorder) IncCarUpdated() {}

// IncCarDeleted is a no-op.
func (n *NoopRecorder) IncCarDeleted() {}

// IncTripAdded is a no-op.
func (n *NoopRecorder) IncTripAdded() {}

// ObserveLedgerSave is a no-op.
func (n *NoopRecorder) ObserveLedgerSave(duration time.Duration) {}
