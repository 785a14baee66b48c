package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtKey = []byte(os.Getenv("JWT_KEY"))

type JWTClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`           // Primary identifier for lookups
	Role  string `json:"role"`            // Role is needed for RBAC in protected endpoints
	Grade string `json:"grade,omitempty"` // Grade is needed for notification targeting (students only)
	Class string `json:"class,omitempty"` // Class is needed for notification targeting (students only)
	jwt.RegisteredClaims
}

func GenerateJWT(name, email, role, grade, class string, duration time.Duration) (string, error) {
	claims := &JWTClaims{
		Name:  name,
		Email: email,
		Role:  role,
		Grade: grade,
		Class: class,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateJWT verifies the token signature and expiry and returns the claims.
// The signature check is mandatory; claims are never trusted from a bare decode.
func ValidateJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ErrTokenExpired lets callers tell an expired credential apart from an
// invalid one, so clients can trigger a re-auth flow instead of a re-login.
var ErrTokenExpired = errors.New("token expired")

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
