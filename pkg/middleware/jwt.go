package middleware

import (
	"SchoolHub/internal/auth"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware verifies the bearer token's signature and expiry and stashes
// the claims in the request context. An expired token gets a distinct body so
// clients can run their re-auth flow instead of treating it as bad
// credentials.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Token"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)

		claims, err := auth.ValidateJWT(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token expired"})
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Token"})
		}
		c.Set("user", claims)
		return next(c)
	}
}
