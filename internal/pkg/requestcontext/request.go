package requestcontext

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey type for context keys to avoid collisions
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
	// DriverIDKey is the context key for the driver a call belongs to
	DriverIDKey ContextKey = "driver_id"
	// AuthTokenKey is the context key for the driver session's bearer token
	AuthTokenKey ContextKey = "auth_token"
)

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithDriverID stores the driver ID in ctx
func WithDriverID(ctx context.Context, driverID string) context.Context {
	return context.WithValue(ctx, DriverIDKey, driverID)
}

// WithAuthToken stores the session token in ctx
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, AuthTokenKey, token)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// GetDriverID extracts driver ID from context
func GetDriverID(ctx context.Context) string {
	if driverID, ok := ctx.Value(DriverIDKey).(string); ok {
		return driverID
	}
	return ""
}

// GetAuthToken extracts the session token from context
func GetAuthToken(ctx context.Context) string {
	if token, ok := ctx.Value(AuthTokenKey).(string); ok {
		return token
	}
	return ""
}

// NewRequestID mints a request ID
func NewRequestID() string {
	return uuid.New().String()
}

// FromEchoContext returns the request ID of an inbound request, minting one when absent
func FromEchoContext(c echo.Context) string {
	if requestID := c.Request().Header.Get(echo.HeaderXRequestID); requestID != "" {
		return requestID
	}
	return NewRequestID()
}
