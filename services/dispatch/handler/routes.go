package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/middleware"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

// RegisterRoutes mounts the driver endpoints on the configured paths
func (h *DispatchHandler) RegisterRoutes(e *echo.Echo, api models.DriverAPIConfig, jwtCfg models.JWTConfig) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuthMiddleware(jwtCfg),
		h.FaultMiddleware(),
	}

	e.POST(echoPath(api.LocationPath), h.UpdateLocation, mw...)
	e.POST(echoPath(api.StatusPath), h.UpdateStatus, mw...)
	e.POST(echoPath(api.PassengerPath), h.RequestPassenger, mw...)
}

// echoPath turns the client's {id} placeholder into an echo path param
func echoPath(path string) string {
	return strings.ReplaceAll(path, "{id}", ":id")
}
