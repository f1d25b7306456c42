package insightslog

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stackError is a Go error that exposes its stack.
type stackError struct {
	msg   string
	stack string
}

func (e *stackError) Error() string { return e.msg }
func (e *stackError) Stack() string { return e.stack }

// extendedError carries caller-defined fields next to its message.
type extendedError struct {
	Name string `mapstructure:"name"`
	Arg1 string `mapstructure:"arg1"`
	Arg2 int    `mapstructure:"arg2"`

	msg   string
	stack string
}

func (e *extendedError) Error() string { return e.msg }
func (e *extendedError) Stack() string { return e.stack }

func newExtendedError(msg, arg1 string, arg2 int) *extendedError {
	return &extendedError{Name: "ExtendedError", Arg1: arg1, Arg2: arg2, msg: msg, stack: "extendedError\n\tat test"}
}

// foreignError is error data decoded from another runtime.
type foreignError struct {
	tagged  bool
	message string
	stack   string
}

func (e foreignError) IsError() bool        { return e.tagged }
func (e foreignError) ErrorMessage() string { return e.message }
func (e foreignError) ErrorStack() string   { return e.stack }

// lookalike has message and stack but no type confirmation.
type lookalike struct {
	Message string
	Stack   string
}

func TestIsErrorLike(t *testing.T) {
	var nilErr *stackError

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"errors_new", errors.New("boom"), true},
		{"wrapped", fmt.Errorf("ctx: %w", errors.New("boom")), true},
		{"custom_error", &stackError{msg: "boom"}, true},
		{"stdlib_struct_error", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, true},
		{"tagged_shape", foreignError{tagged: true, message: "remote"}, true},
		{"untagged_shape", foreignError{tagged: false, message: "remote"}, false},
		{"map_with_message", map[string]any{"message": "boom", "stack": "trace"}, false},
		{"struct_with_message", lookalike{Message: "boom", Stack: "trace"}, false},
		{"string", "boom", false},
		{"number", 42, false},
		{"nil", nil, false},
		{"typed_nil_error", nilErr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorLike(tt.v))
		})
	}
}

func TestAsErrorWrapsShapes(t *testing.T) {
	shape := foreignError{tagged: true, message: "remote failure", stack: "remote stack"}

	err := asError(shape)
	assert.EqualError(t, err, "remote failure")
	assert.Equal(t, "remote stack", errorStack(err))

	native := errors.New("native")
	assert.Same(t, native, asError(native))
}

func TestErrorStackCapabilities(t *testing.T) {
	assert.Equal(t, "frames", errorStack(&stackError{msg: "x", stack: "frames"}))
	assert.Equal(t, "remote", errorStack(foreignError{tagged: true, stack: "remote"}))
	assert.Equal(t, "", errorStack(errors.New("no stack")))
}
