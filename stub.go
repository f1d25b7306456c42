package insightslog

import (
	"log/slog"
	"sync"
)

// StubClient implements Client by keeping every submission in memory. It is
// intended for CI and local runs where no Application Insights resource is
// available.
type StubClient struct {
	log *slog.Logger

	mu         sync.Mutex
	traces     []Payload
	exceptions []Payload
}

// NewStubClient returns an empty StubClient.
func NewStubClient(logger *slog.Logger) *StubClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubClient{log: logger.With("component", "stub_client")}
}

func (s *StubClient) TrackTrace(p Payload) {
	s.mu.Lock()
	s.traces = append(s.traces, p)
	s.mu.Unlock()

	s.log.Debug("stub trace",
		"message", p.Message,
		"severity", p.Severity.String(),
		"properties", len(p.Properties),
	)
}

func (s *StubClient) TrackException(p Payload) {
	s.mu.Lock()
	s.exceptions = append(s.exceptions, p)
	s.mu.Unlock()

	var msg string
	if p.Exception != nil {
		msg = p.Exception.Error()
	}
	s.log.Debug("stub exception",
		"error", msg,
		"severity", p.Severity.String(),
		"properties", len(p.Properties),
	)
}

// Traces returns the trace submissions received so far.
func (s *StubClient) Traces() []Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payload(nil), s.traces...)
}

// Exceptions returns the exception submissions received so far.
func (s *StubClient) Exceptions() []Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payload(nil), s.exceptions...)
}

// Reset drops all recorded submissions.
func (s *StubClient) Reset() {
	s.mu.Lock()
	s.traces = nil
	s.exceptions = nil
	s.mu.Unlock()
}
