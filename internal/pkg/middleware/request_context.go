package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/requestcontext"
)

// RequestContextMiddleware propagates X-Request-ID into the request context and response
func RequestContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := requestcontext.FromEchoContext(c)

			ctx := requestcontext.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			return next(c)
		}
	}
}
