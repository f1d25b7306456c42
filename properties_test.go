package insightslog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fieldsError struct{ msg string }

func (e fieldsError) Error() string { return e.msg }
func (e fieldsError) Fields() map[string]any {
	return map[string]any{"tenant": "acme", "retryable": true}
}

type requestContext struct {
	RequestID string `mapstructure:"request_id"`
	Attempt   int    `mapstructure:"attempt"`
	internal  string
}

func TestRecordProperties(t *testing.T) {
	props := RecordProperties(Record{Fields: map[string]any{
		"level":   "info",
		"message": "hello",
		"user":    "u-1",
	}})
	assert.Equal(t, Properties{"user": "u-1"}, props)
	assert.Empty(t, RecordProperties(Record{}))
}

func TestErrorProperties(t *testing.T) {
	err := &stackError{msg: "boom", stack: "frames"}

	assert.Equal(t, Properties{"message": "boom", "stack": "frames"}, ErrorProperties(err, true))
	assert.Equal(t, Properties{"message": "boom"}, ErrorProperties(err, false))
	assert.Equal(t, Properties{"message": "plain"}, ErrorProperties(errors.New("plain"), true))
}

func TestErrorPropertiesOwnFields(t *testing.T) {
	props := ErrorProperties(fieldsError{msg: "quota"}, false)
	assert.Equal(t, Properties{"message": "quota", "tenant": "acme", "retryable": true}, props)
}

func TestContextProperties(t *testing.T) {
	var nilCtx *requestContext

	tests := []struct {
		name string
		ctx  any
		want Properties
	}{
		{"nil", nil, Properties{}},
		{"properties", Properties{"a": 1}, Properties{"a": 1}},
		{"map_any", map[string]any{"a": "b"}, Properties{"a": "b"}},
		{"map_string", map[string]string{"a": "b"}, Properties{"a": "b"}},
		{"map_int_values", map[string]int{"a": 1}, Properties{"a": 1}},
		{"map_int_keys", map[int]string{1: "a"}, Properties{}},
		{"struct", requestContext{RequestID: "r-1", Attempt: 2, internal: "x"}, Properties{"request_id": "r-1", "attempt": 2}},
		{"struct_pointer", &requestContext{RequestID: "r-2"}, Properties{"request_id": "r-2", "attempt": 0}},
		{"nil_pointer", nilCtx, Properties{}},
		{"string", "not a bag", Properties{}},
		{"number", 42, Properties{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContextProperties(tt.ctx))
		})
	}
}

func TestRecordMessageText(t *testing.T) {
	assert.Equal(t, "", Record{}.MessageText())
	assert.Equal(t, "hello", Record{Message: "hello"}.MessageText())
	assert.Equal(t, "boom", Record{Message: errors.New("boom")}.MessageText())
	assert.Equal(t, "remote", Record{Message: foreignError{tagged: true, message: "remote"}}.MessageText())
	assert.Equal(t, "[1,2]", Record{Message: []int{1, 2}}.MessageText())
}
