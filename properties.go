package insightslog

import "reflect"

// Properties is the property bag attached to a submission.
type Properties map[string]any

// Record is one log call as handed over by a front-end.
type Record struct {
	// Level is the front-end's level name, e.g. "info" or "crit".
	Level string
	// Message is a string, an error or an ErrorShape.
	Message any
	// Err is the error carried by the record itself, if any.
	Err error
	// Fields are the record's own structured fields.
	Fields map[string]any
	// Context is the optional extra context value: a map, a struct or an
	// error-like value.
	Context any
}

// MessageText renders the record message as the trace text.
func (r Record) MessageText() string {
	switch m := r.Message.(type) {
	case nil:
		return ""
	case string:
		return m
	}
	if IsErrorLike(r.Message) {
		return errorMessage(r.Message)
	}
	return Render(r.Message)
}

const (
	levelKey   = "level"
	messageKey = "message"
	stackKey   = "stack"
)

// RecordProperties copies the record fields, leaving out the reserved level
// and message keys.
func RecordProperties(r Record) Properties {
	p := make(Properties, len(r.Fields))
	for k, v := range r.Fields {
		if k == levelKey || k == messageKey {
			continue
		}
		p[k] = v
	}
	return p
}

// ErrorProperties extracts message, stack (when withStack is set and the
// value has one) and the value's own fields.
func ErrorProperties(v any, withStack bool) Properties {
	p := make(Properties)
	for k, val := range ownFields(v) {
		p[k] = val
	}
	p[messageKey] = errorMessage(v)
	if withStack {
		if stack := errorStack(v); stack != "" {
			p[stackKey] = stack
		}
	} else {
		delete(p, stackKey)
	}
	return p
}

// ContextProperties turns an extra context value into a bag. Maps with string
// keys and structs contribute their entries; anything else yields an empty bag.
func ContextProperties(ctx any) Properties {
	p := make(Properties)
	switch c := ctx.(type) {
	case nil:
		return p
	case Properties:
		for k, v := range c {
			p[k] = v
		}
		return p
	case map[string]any:
		for k, v := range c {
			p[k] = v
		}
		return p
	case map[string]string:
		for k, v := range c {
			p[k] = v
		}
		return p
	}
	rv := reflect.ValueOf(ctx)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return p
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return p
		}
		iter := rv.MapRange()
		for iter.Next() {
			p[iter.Key().String()] = iter.Value().Interface()
		}
	case reflect.Struct:
		return Properties(ownFields(rv.Interface()))
	}
	return p
}

func merge(dst Properties, srcs ...Properties) Properties {
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}
