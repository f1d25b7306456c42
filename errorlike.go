package insightslog

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrorShape is implemented by values that carry error data without being a
// Go error, typically errors decoded from another process or SDK. A value is
// treated as an error only when IsError reports true; a message and a stack
// alone are not enough.
type ErrorShape interface {
	IsError() bool
	ErrorMessage() string
	ErrorStack() string
}

// IsErrorLike reports whether v should be handled as an error: a non-nil
// error, or an ErrorShape that confirms it is one.
func IsErrorLike(v any) bool {
	switch e := v.(type) {
	case nil:
		return false
	case error:
		return !isNilValue(e)
	case ErrorShape:
		return !isNilValue(e) && e.IsError()
	}
	return false
}

// asError returns v as an error. v must satisfy IsErrorLike.
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	if shape, ok := v.(ErrorShape); ok {
		return &shapeError{shape: shape}
	}
	return nil
}

type shapeError struct {
	shape ErrorShape
}

func (e *shapeError) Error() string      { return e.shape.ErrorMessage() }
func (e *shapeError) ErrorStack() string { return e.shape.ErrorStack() }

func errorMessage(v any) string {
	switch e := v.(type) {
	case ErrorShape:
		return e.ErrorMessage()
	case error:
		return e.Error()
	}
	return ""
}

func errorStack(v any) string {
	switch e := v.(type) {
	case interface{ ErrorStack() string }:
		return e.ErrorStack()
	case interface{ Stack() string }:
		return e.Stack()
	case interface{ Stack() []byte }:
		return string(e.Stack())
	}
	return ""
}

// ownFields returns the caller-visible fields of v: exported top-level struct
// fields and anything reported by Fields().
func ownFields(v any) map[string]any {
	fields := make(map[string]any)
	if rv := reflect.ValueOf(v); rv.IsValid() {
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Struct {
			_ = mapstructure.Decode(rv.Interface(), &fields)
			keepNested(rv, fields)
		}
	}
	if f, ok := v.(interface{ Fields() map[string]any }); ok {
		for k, val := range f.Fields() {
			fields[k] = val
		}
	}
	return fields
}

// keepNested puts back struct-valued fields that Decode expanded into maps,
// so Render formats values such as time.Time through String or JSON.
func keepNested(rv reflect.Value, fields map[string]any) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)
		inner := fv
		if inner.Kind() == reflect.Pointer {
			if inner.IsNil() {
				continue
			}
			inner = inner.Elem()
		}
		if inner.Kind() != reflect.Struct {
			continue
		}

		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" || strings.Contains(opts, "squash") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if _, ok := fields[name]; ok {
			fields[name] = fv.Interface()
		}
	}
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
