package middleware

import (
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/nebengjek-driver/internal/pkg/jwt"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/utils"
)

// DriverIDKey is the echo context key holding the authenticated driver
const DriverIDKey = "driver_id"

// JWTAuthMiddleware validates driver session tokens. With an empty secret
// every request is let through, which is how the stub runs by default.
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	if config.Secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(config.Secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwtpkg.Claims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*jwtpkg.Claims); ok {
				c.Set(DriverIDKey, claims.DriverID)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return utils.UnauthorizedResponse(c, "invalid or missing driver token")
		},
	})
}
