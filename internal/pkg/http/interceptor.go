package http

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"

	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/requestcontext"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// RequestInterceptor adds cross-cutting fields to an outbound request.
// It never rejects a request.
type RequestInterceptor func(req *nethttp.Request)

// ErrorReporter observes a classified failure before it reaches the caller.
// req is nil when the failure happened before a request could be built.
type ErrorReporter func(ctx context.Context, req *nethttp.Request, err *syncerr.SyncError)

// DefaultInterceptors returns the request-phase pipeline used by NewClient
func DefaultInterceptors() []RequestInterceptor {
	return []RequestInterceptor{RequestIDInterceptor, AuthInterceptor}
}

// DefaultReporters returns the failure reporters used by NewClient
func DefaultReporters() []ErrorReporter {
	return []ErrorReporter{LogReporter, NewRelicReporter}
}

// RequestIDInterceptor propagates the request ID from the context, minting one if absent
func RequestIDInterceptor(req *nethttp.Request) {
	if req.Header.Get(RequestIDHeader) != "" {
		return
	}
	requestID := requestcontext.GetRequestID(req.Context())
	if requestID == "" {
		requestID = requestcontext.NewRequestID()
	}
	req.Header.Set(RequestIDHeader, requestID)
}

// AuthInterceptor attaches the session's bearer token when the context carries one
func AuthInterceptor(req *nethttp.Request) {
	if token := requestcontext.GetAuthToken(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// LogReporter logs every failure through the global logger
func LogReporter(ctx context.Context, req *nethttp.Request, err *syncerr.SyncError) {
	fields := []logger.Field{
		logger.String("kind", string(err.Kind)),
		logger.Err(err),
	}
	if req != nil {
		fields = append(fields,
			logger.String("method", req.Method),
			logger.String("url", req.URL.String()),
			logger.String("request_id", req.Header.Get(RequestIDHeader)))
	}
	if err.StatusCode != 0 {
		fields = append(fields, logger.Int("status_code", err.StatusCode))
	}
	if driverID := requestcontext.GetDriverID(ctx); driverID != "" {
		fields = append(fields, logger.String("driver_id", driverID))
	}

	switch err.Kind {
	case syncerr.KindCanceled:
		logger.DebugCtx(ctx, "Sync call cancelled", fields...)
	case syncerr.KindClientError, syncerr.KindInvalidState:
		logger.WarnCtx(ctx, "Sync call rejected", fields...)
	default:
		logger.ErrorCtx(ctx, "Sync call failed", fields...)
	}
}

// NewRelicReporter notices the failure on the transaction in ctx
func NewRelicReporter(ctx context.Context, _ *nethttp.Request, err *syncerr.SyncError) {
	if err.Kind == syncerr.KindCanceled {
		return
	}
	nrpkg.NoticeError(ctx, err)
}

// classifyTransportError maps a failure without an HTTP status to a kind
func classifyTransportError(ctx context.Context, err error) *syncerr.SyncError {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return syncerr.Canceled(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return syncerr.Timeout(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return syncerr.Timeout(err)
	}

	return syncerr.Unreachable(err)
}
