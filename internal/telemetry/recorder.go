package telemetry

import (
	"log/slog"
	"sync/atomic"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
)

// Recorder centralises the adapter's own telemetry: counters for the
// submissions handed to the backend and a bridge for the SDK's diagnostics
// messages into slog.
type Recorder struct {
	logger *slog.Logger

	traces     atomic.Uint64
	exceptions atomic.Uint64
}

// NewRecorder constructs a telemetry recorder using the provided slog.Logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Logger returns the underlying slog.Logger for direct use.
func (r *Recorder) Logger() *slog.Logger {
	return r.logger
}

// RecordTrace counts one trace submission.
func (r *Recorder) RecordTrace(level string) {
	r.traces.Add(1)
	r.logger.Debug("trace submitted", "level", level)
}

// RecordException counts one exception submission.
func (r *Recorder) RecordException(level string) {
	r.exceptions.Add(1)
	r.logger.Debug("exception submitted", "level", level)
}

// Counts returns the number of traces and exceptions submitted so far.
func (r *Recorder) Counts() (traces, exceptions uint64) {
	return r.traces.Load(), r.exceptions.Load()
}

// ListenDiagnostics forwards the SDK's diagnostics messages to the logger at
// debug level until the returned function is called.
func (r *Recorder) ListenDiagnostics() (stop func()) {
	listener := appinsights.NewDiagnosticsMessageListener(func(msg string) error {
		r.logger.Debug("appinsights diagnostics", "message", msg)
		return nil
	})
	return listener.Remove
}
