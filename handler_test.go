package insightslog

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLevelName(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug - 4, "debug"},
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{LevelCritical, "crit"},
		{LevelEmergency, "emerg"},
		{LevelEmergency + 4, "emerg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlogLevelName(tt.level), tt.level.String())
	}
}

func TestHandlerForwardsRecords(t *testing.T) {
	tr, stub := newTestTranslator(t, Options{Level: "info", TreatErrorsAsExceptions: true})
	logger := slog.New(NewHandler(tr, nil))

	logger.Debug("dropped")
	logger.Info("user signed in", "user", "u-1", "attempt", 2)
	logger.Error("payment failed", "error", &stackError{msg: "card declined", stack: "frames"}, "order", "o-9")

	traces := stub.Traces()
	require.Len(t, traces, 1)
	assert.Equal(t, "user signed in", traces[0].Message)
	assert.Equal(t, Information, traces[0].Severity)
	assert.Equal(t, Properties{"user": "u-1", "attempt": int64(2)}, traces[0].Properties)

	exceptions := stub.Exceptions()
	require.Len(t, exceptions, 1)
	got := exceptions[0]
	assert.Equal(t, "card declined", got.Exception.Error())
	assert.Equal(t, "payment failed: card declined", got.Properties["message"])
	assert.Equal(t, "frames", got.Properties["stack"])
	assert.Equal(t, "o-9", got.Properties["order"])
}

func TestHandlerGroupsAndAttrs(t *testing.T) {
	tr, stub := newTestTranslator(t, Options{})
	logger := slog.New(NewHandler(tr, nil)).
		With("service", "billing").
		WithGroup("http").
		With("method", "POST")

	logger.Warn("slow request", slog.Group("timing", slog.Int("ms", 1200)), "path", "/pay")

	traces := stub.Traces()
	require.Len(t, traces, 1)
	assert.Equal(t, Warning, traces[0].Severity)
	assert.Equal(t, Properties{
		"service":        "billing",
		"http.method":    "POST",
		"http.timing.ms": int64(1200),
		"http.path":      "/pay",
	}, traces[0].Properties)
}

func TestHandlerCustomErrorKeys(t *testing.T) {
	tr, stub := newTestTranslator(t, Options{TreatErrorsAsExceptions: true})
	logger := slog.New(NewHandler(tr, &HandlerOptions{ErrorKeys: []string{"cause"}}))

	logger.Error("first", "error", errors.New("not the record error"))
	logger.Log(context.Background(), LevelCritical, "second", "cause", errors.New("disk gone"))

	exceptions := stub.Exceptions()
	require.Len(t, exceptions, 2)
	assert.Equal(t, "first", exceptions[0].Exception.Error())
	assert.Equal(t, "not the record error", exceptions[0].Properties["error"])
	assert.Equal(t, "disk gone", exceptions[1].Exception.Error())
	assert.Equal(t, Critical, exceptions[1].Severity)
}

func TestHandlerEnabled(t *testing.T) {
	tr, _ := newTestTranslator(t, Options{Level: "error"})
	h := NewHandler(tr, nil)

	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	assert.True(t, h.Enabled(context.Background(), LevelEmergency))
}
