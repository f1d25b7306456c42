package insightslog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nupi-ai/insightslog/internal/config"
)

var (
	// ErrNoClient is returned by New when no client could be resolved from
	// Options or the environment.
	ErrNoClient = errors.New("could not get an Application Insights client instance: instrumentation key not found")
	// ErrUnknownLevel is returned by New for a minimum level SeverityOf does
	// not recognise.
	ErrUnknownLevel = errors.New("unknown level")
)

// ExceptionPolicy decides what is submitted for a record escalated to an
// exception.
type ExceptionPolicy int

const (
	// ExceptionOnly submits the exception and no trace.
	ExceptionOnly ExceptionPolicy = iota
	// TraceAndException submits the exception followed by a trace.
	TraceAndException
)

func (p ExceptionPolicy) String() string {
	switch p {
	case ExceptionOnly:
		return config.ExceptionOnly
	case TraceAndException:
		return config.TraceAndException
	default:
		return fmt.Sprintf("ExceptionPolicy(%d)", int(p))
	}
}

// ParseExceptionPolicy parses the names used in configuration files.
func ParseExceptionPolicy(name string) (ExceptionPolicy, error) {
	switch normalizeLevel(name) {
	case "", config.ExceptionOnly:
		return ExceptionOnly, nil
	case config.TraceAndException:
		return TraceAndException, nil
	}
	return 0, fmt.Errorf("insightslog: unknown exception policy %q", name)
}

// Options configures a Translator. The client is resolved in field order:
// Client, then Insights.DefaultClient(), then a new client for Key, then a
// new client for the key in APPINSIGHTS_INSTRUMENTATIONKEY.
type Options struct {
	// Client is a pre-configured client. It is never closed by the Translator.
	Client Client
	// Insights is a pre-configured backend instance whose default client is used.
	Insights Insights
	// Key is the instrumentation key for a newly provisioned client.
	Key string

	// Endpoint, MaxBatchSize and MaxBatchInterval apply to provisioned clients only.
	Endpoint         string
	MaxBatchSize     int
	MaxBatchInterval time.Duration

	// Level is the minimum level name front-ends submit. Defaults to "info".
	Level string

	// TreatErrorsAsExceptions and SendErrorsAsExceptions are aliases; either
	// escalates error-tier records to exceptions.
	TreatErrorsAsExceptions bool
	SendErrorsAsExceptions  bool
	ExceptionPolicy         ExceptionPolicy

	// Formatter, when set, transforms every payload before submission.
	Formatter Formatter

	Logger *slog.Logger
	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

func (o Options) escalate() bool {
	return o.TreatErrorsAsExceptions || o.SendErrorsAsExceptions
}

func resolveClient(opts Options) (Client, error) {
	if opts.Client != nil && !isNilValue(opts.Client) {
		return opts.Client, nil
	}
	if opts.Insights != nil && !isNilValue(opts.Insights) {
		if tc := opts.Insights.DefaultClient(); tc != nil && !isNilValue(tc) {
			return NewClient(tc), nil
		}
	}

	key := opts.Key
	if key == "" {
		key, _ = config.InstrumentationKey(opts.Lookup)
	}
	if key == "" {
		return nil, ErrNoClient
	}
	return NewClientFromConfig(ClientConfig{
		InstrumentationKey: key,
		Endpoint:           opts.Endpoint,
		MaxBatchSize:       opts.MaxBatchSize,
		MaxBatchInterval:   opts.MaxBatchInterval,
	})
}
