package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/google/uuid"

	"github.com/UnknownOlympus/hestia/internal/handlers"
	"github.com/UnknownOlympus/hestia/internal/metrics"
)

const (
	apiTitle   = "Hestia Employee Directory"
	apiVersion = "1.0.0"
	apiPrefix  = "/api"

	requestIDHeader = "X-Request-Id"
)

// RouterOptions lists what the public HTTP surface is assembled from.
type RouterOptions struct {
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Service handlers.EmployeeService
	GraphQL http.Handler
	Hub     http.Handler
}

// NewRouter mounts the REST API under /api, GraphQL at /graphql and the hub at /hub/employees.
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(http.ResponseWriter, *http.Request) {})
	if opts.GraphQL != nil {
		mux.Handle("/graphql", opts.GraphQL)
	}
	if opts.Hub != nil {
		mux.Handle("/hub/employees", opts.Hub)
	}

	root := humago.New(mux, huma.DefaultConfig(apiTitle, apiVersion))
	api := huma.NewGroup(root, apiPrefix)
	api.UseMiddleware(
		ctxlog{}.loggerMiddleware(opts.Log),
		meterRequests(opts.Metrics),
		ctxlog{}.recoverMiddleware(opts.Log),
	)

	(&handlers.Employees{
		Service:      opts.Service,
		ErrorHandler: ctxlog{}.errorHandler(opts.Log),
		BasePath:     apiPrefix,
	}).Register(api)

	return mux
}

// NewHTTPServer wraps handler with the configured address and timeouts.
func NewHTTPServer(addr string, readHeaderTimeout time.Duration, handler http.Handler, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: readHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}
}

// ctxlog is a [context.Context] key for the per-request logger.
type ctxlog struct{}

// loggerMiddleware stores a request scoped logger in the context and logs the request once it is done.
// Requests without an X-Request-Id get a fresh one, echoed back in the response.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := ctx.Header(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetHeader(requestIDHeader, requestID)
		logger := parent.With("x-request-id", requestID)

		start := time.Now()
		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", ctx.Operation().OperationID)))

		logger.LogAttrs(context.Background(), slog.LevelInfo,
			strings.Join([]string{ctx.Operation().Method, ctx.Operation().Path, ctx.Version().Proto}, " "),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverMiddleware logs a recovered panic and answers 500.
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if v := recover(); v != nil {
				key.logger(ctx.Context(), fallback).LogAttrs(context.Background(), slog.LevelError,
					"panic occurred", slog.Any("recovered", v))
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// errorHandler logs handler errors at a level derived from their HTTP status.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		attrs := []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.GetStatus() / 100 {
			case 5: //nolint: mnd // 5XX HTTP Status Codes
				level = slog.LevelError
			case 4: //nolint: mnd // 4XX HTTP Status Codes
				level = slog.LevelWarn
			}
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}

		key.logger(ctx, fallback).LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

func (key ctxlog) logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(key).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

func meterRequests(appMetrics *metrics.Metrics) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)

		appMetrics.HTTPRequests.WithLabelValues(op.Method, op.Path, strconv.Itoa(ctx.Status())).Inc()
		appMetrics.HTTPRequestDuration.WithLabelValues(op.Method, op.Path).Observe(time.Since(start).Seconds())
	}
}
