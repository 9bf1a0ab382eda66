package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/utils"
)

// FaultMiddleware delays every driver call by the configured latency and
// answers a configured share of them with 503
func (h *DispatchHandler) FaultMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if h.cfg.Latency > 0 {
				timer := time.NewTimer(h.cfg.Latency)
				select {
				case <-ctx.Done():
					timer.Stop()
					// client is gone, nobody reads the answer
					return nil
				case <-timer.C:
				}
			}

			if h.cfg.FailureRate > 0 && h.float64() < h.cfg.FailureRate {
				h.injected.Add(1)
				logger.DebugCtx(ctx, "Injected failure", logger.String("path", c.Path()))
				return utils.ServiceUnavailableResponse(c, "injected failure")
			}

			return next(c)
		}
	}
}
