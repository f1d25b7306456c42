// Package zapinsights feeds zap log entries into an insightslog.Translator.
package zapinsights

import (
	"context"

	"go.uber.org/zap/zapcore"

	"github.com/nupi-ai/insightslog"
)

// LevelName maps a zap level onto the level names insightslog knows.
func LevelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "debug"
	case zapcore.InfoLevel:
		return "info"
	case zapcore.WarnLevel:
		return "warn"
	case zapcore.ErrorLevel:
		return "error"
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return "crit"
	case zapcore.FatalLevel:
		return "emerg"
	}
	if l < zapcore.DebugLevel {
		return "debug"
	}
	return "emerg"
}

// Core is a zapcore.Core backed by a Translator.
type Core struct {
	t      *insightslog.Translator
	fields []zapcore.Field
}

// NewCore returns a Core forwarding to t. Entries below t.Level() are
// disabled.
func NewCore(t *insightslog.Translator) *Core {
	return &Core{t: t}
}

func (c *Core) Enabled(l zapcore.Level) bool {
	return c.t.Enabled(LevelName(l))
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := &Core{t: c.t}
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	rec := insightslog.Record{
		Level:   LevelName(ent.Level),
		Message: ent.Message,
	}

	enc := zapcore.NewMapObjectEncoder()
	add := func(f zapcore.Field) {
		if f.Type == zapcore.ErrorType && rec.Err == nil {
			if err, ok := f.Interface.(error); ok && err != nil {
				rec.Err = err
				return
			}
		}
		f.AddTo(enc)
	}
	for _, f := range c.fields {
		add(f)
	}
	for _, f := range fields {
		add(f)
	}

	rec.Fields = enc.Fields
	if ent.LoggerName != "" {
		rec.Fields["logger"] = ent.LoggerName
	}
	if ent.Caller.Defined {
		rec.Fields["caller"] = ent.Caller.TrimmedPath()
	}
	err := c.t.Log(context.Background(), rec)
	// Panic and Fatal end the process right after Write returns.
	if ent.Level > zapcore.ErrorLevel {
		c.t.Flush()
	}
	return err
}

// Sync flushes the Translator's client.
func (c *Core) Sync() error {
	c.t.Flush()
	return nil
}
