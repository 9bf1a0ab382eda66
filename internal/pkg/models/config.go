package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	DriverAPI DriverAPIConfig
	Simulator SimulatorConfig
	Stub      StubConfig
	JWT       JWTConfig
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// DriverAPIConfig describes the coordination service the driver client talks to
type DriverAPIConfig struct {
	BaseURL       string
	LocationPath  string
	StatusPath    string
	PassengerPath string
}

// SimulatorConfig controls the driver simulation loop
type SimulatorConfig struct {
	Drivers          int
	LocationInterval time.Duration
	PassengerEvery   int // request a passenger every N location ticks while ONLINE
	StartLatitude    float64
	StartLongitude   float64
	StepMeters       float64
	StatusRetries    int
	BreakerFailures  uint32
	BreakerCooldown  time.Duration
	ScenarioFile     string
}

// StubConfig contains the local coordination stub server configuration
type StubConfig struct {
	Port             int
	GeohashPrecision uint
	ShutdownTimeout  int
	FailureRate      float64 // share of driver calls answered with 503
	Latency          time.Duration
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
