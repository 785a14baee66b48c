package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("Sara Malik", "sara@school.test", "teacher", "", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.Email != "sara@school.test" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "sara@school.test")
	}
	if claims.Role != "teacher" {
		t.Errorf("claims.Role = %q, want %q", claims.Role, "teacher")
	}
	if claims.Name != "Sara Malik" {
		t.Errorf("claims.Name = %q, want %q", claims.Name, "Sara Malik")
	}
}

func TestJWTCarriesGradeAndClass(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("Ali", "ali@school.test", "student", "7", "7A", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.Grade != "7" || claims.Class != "7A" {
		t.Errorf("claims grade/class = %q/%q, want 7/7A", claims.Grade, claims.Class)
	}
}

func TestValidateJWTExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("Ali", "ali@school.test", "student", "7", "7A", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	_, err = ValidateJWT(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ValidateJWT(expired) = %v, want ErrTokenExpired", err)
	}
}

func TestValidateJWTTampered(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("Ali", "ali@school.test", "student", "7", "7A", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	_, err = ValidateJWT(token + "x")
	if err == nil {
		t.Fatal("ValidateJWT accepted a token with a broken signature")
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatal("tampered token misreported as expired")
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Fatal("CheckPasswordHash rejected the right password")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Fatal("CheckPasswordHash accepted the wrong password")
	}
}

func TestValidRole(t *testing.T) {
	t.Parallel()

	for _, role := range []string{"student", "teacher", "parent", "admin"} {
		if !validRole(role) {
			t.Errorf("validRole(%q) = false, want true", role)
		}
	}
	if validRole("staff") {
		t.Error(`validRole("staff") = true, want false`)
	}
}
