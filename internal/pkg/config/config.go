package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

const (
	// DefaultBaseURL is the coordination service address used when
	// DRIVER_API_BASE_URL is unset: a backend on the developer machine.
	DefaultBaseURL = "http://localhost:8080"

	DefaultLocationPath  = "/v1/drivers/location/update"
	DefaultStatusPath    = "/v1/drivers/update"
	DefaultPassengerPath = "/v1/drivers/requestPassenger"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" && configPath != "" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "nebengjek-driver")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Driver API config
	configs.DriverAPI.BaseURL = GetEnv("DRIVER_API_BASE_URL", DefaultBaseURL)
	configs.DriverAPI.LocationPath = GetEnv("DRIVER_LOCATION_PATH", DefaultLocationPath)
	configs.DriverAPI.StatusPath = GetEnv("DRIVER_STATUS_PATH", DefaultStatusPath)
	configs.DriverAPI.PassengerPath = GetEnv("DRIVER_PASSENGER_PATH", DefaultPassengerPath)

	// Simulator config
	configs.Simulator.Drivers = GetEnvAsInt("SIM_DRIVERS", 1)
	configs.Simulator.LocationInterval = GetEnvAsDuration("SIM_LOCATION_INTERVAL", 3*time.Second)
	configs.Simulator.PassengerEvery = GetEnvAsInt("SIM_PASSENGER_EVERY", 5)
	configs.Simulator.StartLatitude = GetEnvAsFloat("SIM_START_LAT", -6.175392)
	configs.Simulator.StartLongitude = GetEnvAsFloat("SIM_START_LNG", 106.827153)
	configs.Simulator.StepMeters = GetEnvAsFloat("SIM_STEP_METERS", 50)
	configs.Simulator.StatusRetries = GetEnvAsInt("SIM_STATUS_RETRIES", 3)
	configs.Simulator.BreakerFailures = uint32(GetEnvAsInt("SIM_BREAKER_FAILURES", 5))
	configs.Simulator.BreakerCooldown = GetEnvAsDuration("SIM_BREAKER_COOLDOWN", 30*time.Second)
	configs.Simulator.ScenarioFile = GetEnv("SIM_SCENARIO_FILE", "")

	// Stub config
	configs.Stub.Port = GetEnvAsInt("STUB_PORT", 8080)
	configs.Stub.GeohashPrecision = uint(GetEnvAsInt("STUB_GEOHASH_PRECISION", 6))
	configs.Stub.ShutdownTimeout = GetEnvAsInt("STUB_SHUTDOWN_TIMEOUT", 5)
	configs.Stub.FailureRate = GetEnvAsFloat("STUB_FAILURE_RATE", 0)
	configs.Stub.Latency = GetEnvAsDuration("STUB_LATENCY", 0)

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Expiration = GetEnvAsInt("JWT_EXPIRATION", 60)
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "nebengjek-driver")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsDuration accepts Go duration strings ("3s", "500ms")
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
