// Package grpcinsights records failed gRPC server calls through an
// insightslog.Translator.
package grpcinsights

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nupi-ai/insightslog"
)

// LevelForCode returns the level name used for a failed call. Server-side
// faults are errors, caller mistakes are warnings.
func LevelForCode(code codes.Code) string {
	switch code {
	case codes.OK:
		return "info"
	case codes.Unknown, codes.Internal, codes.DataLoss, codes.Unavailable, codes.DeadlineExceeded:
		return "error"
	default:
		return "warn"
	}
}

// UnaryServerInterceptor records every unary call that returns an error.
func UnaryServerInterceptor(t *insightslog.Translator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			record(ctx, t, info.FullMethod, err, time.Since(start))
		}
		return resp, err
	}
}

// StreamServerInterceptor records every streaming call that returns an error.
func StreamServerInterceptor(t *insightslog.Translator) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		if err != nil {
			record(ss.Context(), t, info.FullMethod, err, time.Since(start))
		}
		return err
	}
}

func record(ctx context.Context, t *insightslog.Translator, method string, err error, elapsed time.Duration) {
	st, _ := status.FromError(err)
	_ = t.Log(ctx, insightslog.Record{
		Level:   LevelForCode(st.Code()),
		Message: "rpc failed: " + method,
		Err:     err,
		Fields: map[string]any{
			"grpc.method":      method,
			"grpc.code":        st.Code().String(),
			"grpc.duration_ms": elapsed.Milliseconds(),
		},
	})
}
