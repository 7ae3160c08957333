package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// JWTAuth configures and returns Echo's JWT middleware. Validated claims are
// copied into the context under the keys pkg/utils reads them from.
func JWTAuth(jwtSecretKey string) echo.MiddlewareFunc {
	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.JwtCustomClaims)
		},
		SigningKey: []byte(jwtSecretKey),
		SuccessHandler: func(c echo.Context) {
			userToken := c.Get("user").(*jwt.Token)
			claims := userToken.Claims.(*models.JwtCustomClaims)

			c.Set(utils.ContextUserID, claims.UserID)
			c.Set(utils.ContextEmail, claims.Email)
			c.Set(utils.ContextRole, claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Errorf("JWT Error: %v", err)

			if errors.Is(err, echojwt.ErrJWTMissing) {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing or malformed JWT"})
			}
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Token has expired"})
			}
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or expired JWT"})
		},
	}
	return echojwt.WithConfig(config)
}

// OptionalAuth parses a bearer token when one is present but lets anonymous
// requests through untouched. The public order form uses it to link orders
// placed by logged-in customers.
func OptionalAuth(jwtSecretKey string) echo.MiddlewareFunc {
	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.JwtCustomClaims)
		},
		SigningKey:             []byte(jwtSecretKey),
		ContinueOnIgnoredError: true,
		SuccessHandler: func(c echo.Context) {
			userToken := c.Get("user").(*jwt.Token)
			claims := userToken.Claims.(*models.JwtCustomClaims)

			c.Set(utils.ContextUserID, claims.UserID)
			c.Set(utils.ContextEmail, claims.Email)
			c.Set(utils.ContextRole, claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Anonymous or bad token both fall back to a guest request.
			return nil
		},
	}
	return echojwt.WithConfig(config)
}

// LogistRequired gates the admin surface. Must run after JWTAuth.
func LogistRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(utils.ContextRole).(string)
			if role != models.RoleLogist {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Logist access required"})
			}
			return next(c)
		}
	}
}
