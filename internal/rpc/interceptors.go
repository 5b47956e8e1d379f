package rpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/UnknownOlympus/hestia/internal/metrics"
)

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelInfo
		switch code {
		case codes.OK:
		case codes.NotFound, codes.AlreadyExists, codes.InvalidArgument:
			level = slog.LevelWarn
		default:
			level = slog.LevelError
		}

		log.LogAttrs(ctx, level, "GRPC "+info.FullMethod,
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

// MetricsInterceptor counts unary calls by method and status code.
func MetricsInterceptor(appMetrics *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		appMetrics.GRPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()

		return resp, err
	}
}

func recoveryHandler(log *slog.Logger) func(ctx context.Context, p any) error {
	return func(ctx context.Context, p any) error {
		log.ErrorContext(ctx, "panic occurred", slog.Any("recovered", p))
		return status.Error(codes.Internal, "internal error")
	}
}
