package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/config"
	"github.com/piresc/nebengjek-driver/internal/pkg/health"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/middleware"
	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/server"
	"github.com/piresc/nebengjek-driver/services/dispatch/handler"
)

func main() {
	appName := "dispatch-stub"
	configPath := "config/dispatch-stub.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.Float64("failure_rate", configs.Stub.FailureRate),
		logger.Duration("latency", configs.Stub.Latency),
		logger.Bool("jwt", configs.JWT.Secret != ""),
	)

	dispatchHandler := handler.NewDispatchHandler(configs.Stub)

	e := echo.New()
	e.HideBanner = true

	// panic recovery first
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestContextMiddleware())
	e.Use(nrpkg.EchoMiddleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName, dispatchHandler.Ready, dispatchHandler.Stats)
	dispatchHandler.RegisterRoutes(e, configs.DriverAPI, configs.JWT)

	shutdown := server.NewShutdownManager(zapLogger)
	shutdown.Register(func(ctx context.Context) error {
		if nrApp != nil {
			zapLogger.Info("Shutting down New Relic...")
			nrApp.Shutdown(10 * time.Second)
		}
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewGracefulServer(e, zapLogger, configs.Stub.Port,
		time.Duration(configs.Stub.ShutdownTimeout)*time.Second)
	srv.OnReadyChange(dispatchHandler.SetReady)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
	}

	if err := shutdown.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Shutdown incomplete", logger.Err(err))
	}

	zapLogger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}
