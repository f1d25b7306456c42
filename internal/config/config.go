package config

import (
	"fmt"
	"time"
)

const (
	DefaultLevel           = "info"
	DefaultLogLevel        = "info"
	DefaultExceptionPolicy = ExceptionOnly
	DefaultShutdownTimeout = 5 * time.Second

	// ExceptionOnly submits escalated records as exceptions only.
	ExceptionOnly = "exception_only"
	// TraceAndException submits escalated records as an exception and a trace.
	TraceAndException = "trace_and_exception"
)

// Config captures bootstrap configuration extracted from environment variables
// or injected JSON payload (`INSIGHTSLOG_CONFIG`).
type Config struct {
	InstrumentationKey string
	Endpoint           string
	Level              string
	LogLevel           string

	TreatErrorsAsExceptions bool
	ExceptionPolicy         string

	MaxBatchSize     int
	MaxBatchInterval time.Duration
	ShutdownTimeout  time.Duration

	// UseStubClient keeps submissions in memory instead of sending them.
	UseStubClient bool
}

// Validate applies defaults and raises an error when required fields are missing.
func (c *Config) Validate() error {
	if c.InstrumentationKey == "" && !c.UseStubClient {
		return fmt.Errorf("config: instrumentation key is required (set %s or instrumentation_key in %s)", EnvInstrumentationKey, EnvConfig)
	}
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ExceptionPolicy == "" {
		c.ExceptionPolicy = DefaultExceptionPolicy
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}

	switch c.ExceptionPolicy {
	case ExceptionOnly, TraceAndException:
	default:
		return fmt.Errorf("config: exception_policy must be %q or %q, got %q", ExceptionOnly, TraceAndException, c.ExceptionPolicy)
	}
	if c.MaxBatchSize < 0 {
		return fmt.Errorf("config: max_batch_size must be >= 0, got %d", c.MaxBatchSize)
	}
	if c.MaxBatchInterval < 0 {
		return fmt.Errorf("config: max_batch_interval must be >= 0, got %s", c.MaxBatchInterval)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: shutdown_timeout must be >= 0, got %s", c.ShutdownTimeout)
	}

	return nil
}
