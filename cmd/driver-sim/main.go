package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/piresc/nebengjek-driver/internal/pkg/config"
	httpclient "github.com/piresc/nebengjek-driver/internal/pkg/http"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/server"
	gateway_http "github.com/piresc/nebengjek-driver/services/driver/gateway/http"
	"github.com/piresc/nebengjek-driver/services/driver/simulator"
	"github.com/piresc/nebengjek-driver/services/driver/usecase"
	"github.com/spf13/pflag"
)

func main() {
	appName := "driver-sim"
	configPath := "config/driver-sim.env"
	configs := config.InitConfig(configPath)

	if err := config.LoadSimulatorConfig(configs, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid simulator configuration: %v", err)
	}

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
		logger.String("base_url", configs.DriverAPI.BaseURL),
		logger.Int("drivers", configs.Simulator.Drivers),
		logger.Duration("interval", configs.Simulator.LocationInterval),
	)

	// one transport shared by every driver session
	client := httpclient.NewClient(httpclient.Config{
		BaseURL: configs.DriverAPI.BaseURL,
	})
	driverGW := gateway_http.NewHTTPGateway(client, gateway_http.PathsFromConfig(configs.DriverAPI))
	driverUC := usecase.NewDriverUC(driverGW)
	sim := simulator.NewSimulator(driverUC, configs, nrApp, zapLogger)

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

	runErr := sim.Run(ctx)
	if runErr != nil {
		zapLogger.Error("Simulation ended with errors", logger.Err(runErr))
	}

	if err := shutdown.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Shutdown incomplete", logger.Err(err))
	}

	zapLogger.Info("Simulator exiting")
	_ = zapLogger.Sync()

	if runErr != nil {
		zapLogger.Close()
		os.Exit(1)
	}
}
