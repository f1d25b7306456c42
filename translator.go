package insightslog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nupi-ai/insightslog/internal/telemetry"
)

// Translator turns log records into Application Insights traces and
// exceptions. Its configuration is fixed at construction, so a Translator is
// safe for concurrent use as long as its Client is.
type Translator struct {
	client    Client
	level     string
	minimum   Severity
	escalate  bool
	policy    ExceptionPolicy
	formatter Formatter
	log       *slog.Logger
	metrics   *telemetry.Recorder
}

// New validates opts and resolves the client. It fails when the minimum level
// is unknown or when no client can be resolved.
func New(opts Options) (*Translator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := normalizeLevel(opts.Level)
	if level == "" {
		level = DefaultLevel
	}
	if !KnownLevel(level) {
		return nil, fmt.Errorf("insightslog: level %q: %w", opts.Level, ErrUnknownLevel)
	}
	switch opts.ExceptionPolicy {
	case ExceptionOnly, TraceAndException:
	default:
		return nil, fmt.Errorf("insightslog: invalid exception policy %s", opts.ExceptionPolicy)
	}

	client, err := resolveClient(opts)
	if err != nil {
		return nil, fmt.Errorf("insightslog: %w", err)
	}

	log := logger.With("component", "insightslog")
	log.Debug("translator configured",
		"level", level,
		"errors_as_exceptions", opts.escalate(),
		"exception_policy", opts.ExceptionPolicy.String(),
		"client", fmt.Sprintf("%T", client),
	)

	return &Translator{
		client:    client,
		level:     level,
		minimum:   SeverityOf(level),
		escalate:  opts.escalate(),
		policy:    opts.ExceptionPolicy,
		formatter: opts.Formatter,
		log:       log,
		metrics:   telemetry.NewRecorder(log),
	}, nil
}

// Level returns the configured minimum level name.
func (t *Translator) Level() string {
	return t.level
}

// Client returns the resolved client.
func (t *Translator) Client() Client {
	return t.client
}

// Enabled reports whether records at level reach the minimum severity.
func (t *Translator) Enabled(level string) bool {
	return SeverityOf(level) >= t.minimum
}

// Stats returns the number of traces and exceptions submitted so far.
func (t *Translator) Stats() (traces, exceptions uint64) {
	return t.metrics.Counts()
}

// Log is the front-end entry point: records below the minimum level are
// dropped, the rest are translated. Delivery belongs to the client, so Log
// always reports success.
func (t *Translator) Log(_ context.Context, r Record) error {
	if !t.Enabled(r.Level) {
		return nil
	}
	t.Translate(r)
	return nil
}

type candidateSource int

const (
	fromNone candidateSource = iota
	fromRecord
	fromMessage
	fromContext
)

// errorCandidate picks the error that governs exception handling: the
// record's own error, then the message, then the extra context.
func errorCandidate(r Record) (any, candidateSource) {
	if r.Err != nil && IsErrorLike(r.Err) {
		return r.Err, fromRecord
	}
	if IsErrorLike(r.Message) {
		return r.Message, fromMessage
	}
	if IsErrorLike(r.Context) {
		return r.Context, fromContext
	}
	return nil, fromNone
}

// Translate submits r regardless of the minimum level. Error-tier records are
// escalated to an exception when the Translator is configured to do so; a
// trace is submitted otherwise, or in addition under TraceAndException.
func (t *Translator) Translate(r Record) {
	level := r.Level
	severity := SeverityOf(level)
	errorTier := severity >= SeverityOf("error")
	msg := r.MessageText()
	candidate, source := errorCandidate(r)

	if t.escalate && errorTier {
		exception := candidate
		if exception == nil {
			exception = errors.New(msg)
		}

		props := RecordProperties(r)
		if source != fromContext {
			merge(props, ContextProperties(r.Context))
		}
		merge(props, ErrorProperties(exception, true))
		if em := errorMessage(exception); msg != "" && em != msg {
			props[messageKey] = msg + ": " + em
		}

		t.submit(KindException, level, Payload{
			Message:    msg,
			Severity:   severity,
			Exception:  asError(exception),
			Properties: Flatten(props),
		})
		if t.policy == ExceptionOnly {
			return
		}
	}

	props := RecordProperties(r)
	if candidate != nil {
		merge(props, ErrorProperties(candidate, false))
	} else {
		merge(props, ContextProperties(r.Context))
	}

	t.submit(KindTrace, level, Payload{
		Message:    msg,
		Severity:   severity,
		Properties: Flatten(props),
	})
}

// Flush asks the client to send what it has buffered, when it buffers at all.
func (t *Translator) Flush() {
	if f, ok := t.client.(interface{ Flush() }); ok {
		f.Flush()
	}
}

func (t *Translator) submit(kind Kind, level string, p Payload) {
	if t.formatter != nil {
		p = t.formatter.Format(kind, level, p)
	}
	switch kind {
	case KindException:
		t.client.TrackException(p)
		t.metrics.RecordException(level)
	default:
		t.client.TrackTrace(p)
		t.metrics.RecordTrace(level)
	}
}
