package insightslog

import (
	"context"
	"fmt"
	"time"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
)

// Kind names a submission type.
type Kind string

const (
	KindTrace     Kind = "trace"
	KindException Kind = "exception"
)

// Payload is one submission. Traces use Message, Severity and Properties;
// exceptions use Exception, Severity and Properties.
type Payload struct {
	Message    string
	Severity   Severity
	Exception  error
	Properties Properties
}

// Client receives translated submissions. Submission is fire and forget;
// implementations must be safe for concurrent use.
type Client interface {
	TrackTrace(p Payload)
	TrackException(p Payload)
}

// Insights is an already configured backend instance that owns a default
// telemetry client.
type Insights interface {
	DefaultClient() appinsights.TelemetryClient
}

// ClientConfig describes a client provisioned from an instrumentation key.
type ClientConfig struct {
	InstrumentationKey string
	// Endpoint overrides the ingestion URL when set.
	Endpoint         string
	MaxBatchSize     int
	MaxBatchInterval time.Duration
}

// InsightsClient submits payloads to an Application Insights telemetry
// client.
type InsightsClient struct {
	tc appinsights.TelemetryClient
}

// NewClient wraps an existing telemetry client.
func NewClient(tc appinsights.TelemetryClient) *InsightsClient {
	return &InsightsClient{tc: tc}
}

// NewClientFromConfig provisions a new telemetry client.
func NewClientFromConfig(cfg ClientConfig) (*InsightsClient, error) {
	if cfg.InstrumentationKey == "" {
		return nil, fmt.Errorf("insightslog: instrumentation key is required")
	}
	tcfg := appinsights.NewTelemetryConfiguration(cfg.InstrumentationKey)
	if cfg.Endpoint != "" {
		tcfg.EndpointUrl = cfg.Endpoint
	}
	if cfg.MaxBatchSize > 0 {
		tcfg.MaxBatchSize = cfg.MaxBatchSize
	}
	if cfg.MaxBatchInterval > 0 {
		tcfg.MaxBatchInterval = cfg.MaxBatchInterval
	}
	return NewClient(appinsights.NewTelemetryClientFromConfig(tcfg)), nil
}

// TelemetryClient returns the wrapped SDK client.
func (c *InsightsClient) TelemetryClient() appinsights.TelemetryClient {
	return c.tc
}

func (c *InsightsClient) TrackTrace(p Payload) {
	trace := appinsights.NewTraceTelemetry(p.Message, p.Severity.contract())
	trace.Properties = copyProperties(trace.Properties, p.Properties)
	c.tc.Track(trace)
}

func (c *InsightsClient) TrackException(p Payload) {
	exception := appinsights.NewExceptionTelemetry(p.Exception)
	exception.SeverityLevel = p.Severity.contract()
	exception.Properties = copyProperties(exception.Properties, p.Properties)
	c.tc.Track(exception)
}

// Flush asks the channel to send whatever it has buffered.
func (c *InsightsClient) Flush() {
	c.tc.Channel().Flush()
}

// Close flushes and stops the channel, retrying failed items for up to
// retryTimeout. It returns early with ctx's error if ctx is done first.
func (c *InsightsClient) Close(ctx context.Context, retryTimeout time.Duration) error {
	select {
	case <-c.tc.Channel().Close(retryTimeout):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func copyProperties(dst map[string]string, src Properties) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = stringify(v)
	}
	return dst
}
