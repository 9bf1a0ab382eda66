package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() models.JWTConfig {
	return models.JWTConfig{
		Secret:     "test-secret-key-for-jwt-signing",
		Expiration: 60,
		Issuer:     "nebengjek-driver-test",
	}
}

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name     string
		driverID string
	}{
		{name: "Valid token generation", driverID: "driver-1"},
		{name: "UUID driver id", driverID: "6f1c2d4e-2b43-4d8e-9a65-0b0e3f1d2c11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := getTestConfig()
			tokenString, expiresAt, err := GenerateToken(tt.driverID, cfg)

			require.NoError(t, err)
			assert.NotEmpty(t, tokenString)
			assert.InDelta(t, time.Now().Add(60*time.Minute).Unix(), expiresAt, 5)

			claims, err := ValidateToken(tokenString, cfg.Secret)
			require.NoError(t, err)
			assert.Equal(t, tt.driverID, claims.DriverID)
			assert.Equal(t, RoleDriver, claims.Role)
			assert.Equal(t, cfg.Issuer, claims.Issuer)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString, _, err := GenerateToken("driver-1", getTestConfig())
	require.NoError(t, err)

	claims, err := ValidateToken(tokenString, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := getTestConfig()
	claims := Claims{
		DriverID: "driver-1",
		Role:     RoleDriver,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = ValidateToken(tokenString, cfg.Secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Malformed(t *testing.T) {
	_, err := ValidateToken("not-a-jwt", getTestConfig().Secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
