package telemetry

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordTrace("info")
			r.RecordException("error")
			r.RecordTrace("warn")
		}()
	}
	wg.Wait()

	traces, exceptions := r.Counts()
	assert.Equal(t, uint64(20), traces)
	assert.Equal(t, uint64(10), exceptions)
}

func TestRecorderLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := NewRecorder(logger)
	r.RecordException("crit")

	assert.Contains(t, buf.String(), "exception submitted")
	assert.Contains(t, buf.String(), "level=crit")
	assert.Same(t, logger, r.Logger())
}

func TestListenDiagnosticsStops(t *testing.T) {
	r := NewRecorder(nil)
	stop := r.ListenDiagnostics()
	assert.NotNil(t, stop)
	stop()
}
