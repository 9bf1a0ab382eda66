package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DRIVER_API_BASE_URL", "")

	cfg := InitConfig("")

	assert.Equal(t, DefaultBaseURL, cfg.DriverAPI.BaseURL)
	assert.Equal(t, DefaultLocationPath, cfg.DriverAPI.LocationPath)
	assert.Equal(t, DefaultStatusPath, cfg.DriverAPI.StatusPath)
	assert.Equal(t, DefaultPassengerPath, cfg.DriverAPI.PassengerPath)
	assert.Equal(t, 3*time.Second, cfg.Simulator.LocationInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DRIVER_API_BASE_URL", "https://dispatch.example.com")
	t.Setenv("DRIVER_LOCATION_PATH", "/api/drivers/{id}/location")
	t.Setenv("SIM_LOCATION_INTERVAL", "250ms")
	t.Setenv("SIM_DRIVERS", "4")

	cfg := InitConfig("")

	assert.Equal(t, "https://dispatch.example.com", cfg.DriverAPI.BaseURL)
	assert.Equal(t, "/api/drivers/{id}/location", cfg.DriverAPI.LocationPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulator.LocationInterval)
	assert.Equal(t, 4, cfg.Simulator.Drivers)
}

func TestInitConfig_LoadsEnvFileWhenLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_ISSUER=from-file\n"), 0o600))

	t.Setenv("APP_ENV", "local")
	t.Setenv("JWT_ISSUER", "")
	// godotenv does not override variables already present, so unset it
	require.NoError(t, os.Unsetenv("JWT_ISSUER"))

	cfg := InitConfig(path)

	assert.Equal(t, "from-file", cfg.JWT.Issuer)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_FLOAT", "x1")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 7, GetEnvAsInt("TEST_INT", 7))
	assert.Equal(t, true, GetEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, 1.5, GetEnvAsFloat("TEST_FLOAT", 1.5))
	assert.Equal(t, time.Second, GetEnvAsDuration("TEST_DURATION", time.Second))
}
