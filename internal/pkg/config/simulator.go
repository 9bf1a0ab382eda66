package config

import (
	"fmt"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LoadSimulatorConfig layers simulator settings over the env-derived cfg.
// Precedence: explicit flags, then the YAML scenario, then cfg as loaded.
func LoadSimulatorConfig(cfg *models.Config, args []string) error {
	sim := cfg.Simulator

	fs := pflag.NewFlagSet("driver-sim", pflag.ContinueOnError)
	fs.String("scenario", sim.ScenarioFile, "YAML scenario file")
	fs.String("base-url", cfg.DriverAPI.BaseURL, "coordination service base URL")
	fs.Int("drivers", sim.Drivers, "number of simulated drivers")
	fs.Duration("interval", sim.LocationInterval, "location publish interval")
	fs.Int("passenger-every", sim.PassengerEvery, "request a passenger every N ticks while ONLINE (0 disables)")
	fs.Float64("start-lat", sim.StartLatitude, "starting latitude")
	fs.Float64("start-lng", sim.StartLongitude, "starting longitude")
	fs.Float64("step-meters", sim.StepMeters, "distance moved per tick")
	fs.Int("status-retries", sim.StatusRetries, "retries for a failed status transition")
	fs.Uint32("breaker-failures", sim.BreakerFailures, "consecutive location failures that open the breaker")
	fs.Duration("breaker-cooldown", sim.BreakerCooldown, "how long an open breaker rejects location updates")

	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if scenario := v.GetString("scenario"); scenario != "" {
		v.SetConfigFile(scenario)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read scenario %s: %w", scenario, err)
		}
	}

	cfg.DriverAPI.BaseURL = v.GetString("base-url")
	cfg.Simulator = models.SimulatorConfig{
		Drivers:          v.GetInt("drivers"),
		LocationInterval: v.GetDuration("interval"),
		PassengerEvery:   v.GetInt("passenger-every"),
		StartLatitude:    v.GetFloat64("start-lat"),
		StartLongitude:   v.GetFloat64("start-lng"),
		StepMeters:       v.GetFloat64("step-meters"),
		StatusRetries:    v.GetInt("status-retries"),
		BreakerFailures:  v.GetUint32("breaker-failures"),
		BreakerCooldown:  v.GetDuration("breaker-cooldown"),
		ScenarioFile:     v.GetString("scenario"),
	}

	if cfg.Simulator.Drivers <= 0 {
		return fmt.Errorf("drivers must be positive, got %d", cfg.Simulator.Drivers)
	}
	if cfg.Simulator.LocationInterval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Simulator.LocationInterval)
	}
	return nil
}
