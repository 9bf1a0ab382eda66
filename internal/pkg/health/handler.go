package health

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/utils"
)

// BuildInfo contains information about the build
type BuildInfo struct {
	Version     string                 `json:"version"`
	GitCommit   string                 `json:"git_commit"`
	BuildTime   string                 `json:"build_time"`
	ServiceName string                 `json:"service_name"`
	GoVersion   string                 `json:"go_version"`
	Hostname    string                 `json:"hostname"`
	ServerTime  time.Time              `json:"server_time"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// DefaultBuildInfo contains default build information
var DefaultBuildInfo = BuildInfo{
	Version:   "development",
	GitCommit: "unknown",
	BuildTime: "unknown",
	GoVersion: runtime.Version(),
}

// ReadinessChecker reports why the service cannot take traffic, or nil
type ReadinessChecker func(ctx context.Context) error

// DetailsFunc adds live service details to the ping response
type DetailsFunc func() map[string]interface{}

// NewPingHandler creates a handler for the ping endpoint
func NewPingHandler(serviceName string, details DetailsFunc) echo.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	base := DefaultBuildInfo
	base.ServiceName = serviceName
	base.Hostname = hostname

	if version := os.Getenv("VERSION"); version != "" {
		base.Version = version
	}
	if gitCommit := os.Getenv("GIT_COMMIT"); gitCommit != "" {
		base.GitCommit = gitCommit
	}
	if buildTime := os.Getenv("BUILD_TIME"); buildTime != "" {
		base.BuildTime = buildTime
	}

	return func(c echo.Context) error {
		info := base
		info.ServerTime = time.Now()
		if details != nil {
			info.Details = details()
		}
		return c.JSON(http.StatusOK, info)
	}
}

// NewReadyHandler answers 503 while ready reports an error
func NewReadyHandler(ready ReadinessChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ready != nil {
			if err := ready(c.Request().Context()); err != nil {
				return utils.ServiceUnavailableResponse(c, err.Error())
			}
		}
		return c.String(http.StatusOK, "OK")
	}
}

// RegisterHealthEndpoints registers the health check endpoints
func RegisterHealthEndpoints(e *echo.Echo, serviceName string, ready ReadinessChecker, details DetailsFunc) {
	e.GET("/ping", NewPingHandler(serviceName, details))

	// liveness
	live := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.GET("/health", live)
	e.GET("/healthz", live)

	e.GET("/ready", NewReadyHandler(ready))
}
