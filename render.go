package insightslog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	jsoniter "github.com/json-iterator/go"
)

var renderJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var renderSpew = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                16,
}

// IsScalar reports whether v survives in a property bag as is: nil, bool,
// numbers and strings.
func IsScalar(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Render produces the textual form of a nested value. Errors and Stringers
// render through their own methods; everything else is JSON with sorted keys,
// or a spew dump when JSON cannot represent it.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case error:
		if isNilValue(t) {
			return ""
		}
		return t.Error()
	case fmt.Stringer:
		if isNilValue(t) {
			return ""
		}
		return t.String()
	}
	if b, err := renderJSON.Marshal(v); err == nil {
		return string(b)
	}
	return strings.TrimSpace(renderSpew.Sdump(v))
}

// Flatten returns a copy of p in which every non-scalar value has been
// replaced by its rendering.
func Flatten(p Properties) Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		if IsScalar(v) {
			out[k] = v
			continue
		}
		out[k] = Render(v)
	}
	return out
}

// stringify converts a flat value into the backend's string form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	}
	if IsScalar(v) {
		return fmt.Sprint(v)
	}
	return Render(v)
}
