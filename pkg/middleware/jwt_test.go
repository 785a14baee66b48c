package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SchoolHub/internal/auth"

	"github.com/labstack/echo/v4"
)

func runJWT(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(func(c echo.Context) error {
		claims := c.Get("user").(*auth.JWTClaims)
		return c.String(http.StatusOK, claims.Email)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	rec := runJWT(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing Token") {
		t.Fatalf("body = %q, want missing-token error", rec.Body.String())
	}
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	token, err := auth.GenerateJWT("Sara", "sara@school.test", "teacher", "", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "sara@school.test" {
		t.Fatalf("claims email = %q, want %q", rec.Body.String(), "sara@school.test")
	}
}

func TestJWTMiddlewareExpiredTokenIsDistinct(t *testing.T) {
	token, err := auth.GenerateJWT("Sara", "sara@school.test", "teacher", "", "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token expired") {
		t.Fatalf("body = %q, want the expired-token error, not the invalid one", rec.Body.String())
	}
}

func TestJWTMiddlewareGarbageToken(t *testing.T) {
	rec := runJWT(t, "Bearer not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid Token") {
		t.Fatalf("body = %q, want invalid-token error", rec.Body.String())
	}
}
