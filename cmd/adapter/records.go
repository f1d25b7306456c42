package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/nupi-ai/insightslog"
)

const maxLineBytes = 1024 * 1024

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// remoteError is an error reported by the process that produced the line.
type remoteError struct {
	message string
	stack   string
}

func (e *remoteError) Error() string      { return e.message }
func (e *remoteError) ErrorStack() string { return e.stack }

// parseRecord decodes one JSON log line. "level", "message", "error",
// "stack" and "context" are reserved; every other key becomes a field.
// "msg" is the message only when "message" is absent.
func parseRecord(line []byte) (insightslog.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return insightslog.Record{}, fmt.Errorf("decode record: %w", err)
	}

	rec := insightslog.Record{Level: "info", Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "level":
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				rec.Level = strings.ToLower(strings.TrimSpace(s))
			}
		case "message":
			rec.Message = v
		case "msg":
			if _, ok := raw["message"]; ok {
				rec.Fields[k] = v
			} else {
				rec.Message = v
			}
		case "context":
			rec.Context = v
		case "error", "stack":
		default:
			rec.Fields[k] = v
		}
	}

	if msg, ok := raw["error"].(string); ok && msg != "" {
		stack, _ := raw["stack"].(string)
		rec.Err = &remoteError{message: msg, stack: stack}
	} else if stack, ok := raw["stack"]; ok {
		rec.Fields["stack"] = stack
	}
	return rec, nil
}

// forward reads newline-delimited JSON records from r until EOF or ctx is
// done. Malformed lines are logged and skipped.
func forward(ctx context.Context, r io.Reader, t *insightslog.Translator, logger *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			logger.Warn("skipping malformed record", "line", lineNo, "error", err)
			continue
		}
		_ = t.Log(ctx, rec)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read records: %w", err)
	}
	return nil
}
