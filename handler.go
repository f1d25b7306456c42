package insightslog

import (
	"context"
	"log/slog"
	"strings"
)

// Extra slog levels for the critical tier.
const (
	LevelCritical  = slog.LevelError + 4
	LevelEmergency = slog.LevelError + 8
)

// SlogLevelName maps a slog level onto the level names SeverityOf knows.
func SlogLevelName(l slog.Level) string {
	switch {
	case l >= LevelEmergency:
		return "emerg"
	case l >= LevelCritical:
		return "crit"
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// HandlerOptions configures the slog front-end.
type HandlerOptions struct {
	// ErrorKeys are the attribute keys whose error value becomes the
	// record's own error. Defaults to "error" and "err".
	ErrorKeys []string
}

// Handler is a slog.Handler that hands records to a Translator.
type Handler struct {
	t         *Translator
	errorKeys []string
	attrs     []slog.Attr
	groups    []string
}

// NewHandler returns a slog.Handler forwarding to t.
func NewHandler(t *Translator, opts *HandlerOptions) *Handler {
	h := &Handler{t: t, errorKeys: []string{"error", "err"}}
	if opts != nil && len(opts.ErrorKeys) > 0 {
		h.errorKeys = opts.ErrorKeys
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.t.Enabled(SlogLevelName(level))
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	rec := Record{
		Level:   SlogLevelName(r.Level),
		Message: r.Message,
		Fields:  make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}

	// Attrs from WithAttrs were bound under the groups open at that time,
	// so they are stored already prefixed.
	for _, a := range h.attrs {
		h.addAttr(&rec, "", a)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		h.addAttr(&rec, prefix, a)
		return true
	})

	return h.t.Log(ctx, rec)
}

func (h *Handler) addAttr(rec *Record, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.addAttr(rec, key, ga)
		}
		return
	}

	v := a.Value.Any()
	if err, ok := v.(error); ok && rec.Err == nil && h.isErrorKey(a.Key) {
		rec.Err = err
		return
	}
	rec.Fields[key] = v
}

func (h *Handler) isErrorKey(key string) bool {
	for _, k := range h.errorKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append([]slog.Attr(nil), h.attrs...)
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}
