package service

import (
	"testing"
	"time"
)

func newTestJWT(t *testing.T, userExpiry, adminExpiry time.Duration) JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, "HS256", userExpiry, adminExpiry)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	return svc
}

func TestUserTokenRoundTrip(t *testing.T) {
	svc := newTestJWT(t, 30*time.Minute, 480*time.Minute)

	token, err := svc.GenerateUserToken(7, "buyer@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}

	claims, err := svc.ValidateUserToken(token)
	if err != nil {
		t.Fatalf("ValidateUserToken: %v", err)
	}
	if claims.UserID != 7 || claims.Subject != "buyer@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := newTestJWT(t, 30*time.Minute, 480*time.Minute)

	token, err := svc.GenerateAdminToken(3, "ops", "super_admin")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := svc.ValidateAdminToken(token)
	if err != nil {
		t.Fatalf("ValidateAdminToken: %v", err)
	}
	if claims.AdminID != 3 || claims.Subject != "ops" || claims.Role != "super_admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestUserTokenRejectedByAdminValidation(t *testing.T) {
	svc := newTestJWT(t, 30*time.Minute, 480*time.Minute)

	token, err := svc.GenerateUserToken(7, "buyer@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if _, err := svc.ValidateAdminToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for user token, got %v", err)
	}
}

func TestAdminTokenRejectedByUserValidation(t *testing.T) {
	svc := newTestJWT(t, 30*time.Minute, 480*time.Minute)

	token, err := svc.GenerateAdminToken(3, "ops", "admin")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if _, err := svc.ValidateUserToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for admin token, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestJWT(t, -1*time.Minute, 480*time.Minute)

	token, err := svc.GenerateUserToken(7, "buyer@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if _, err := svc.ValidateUserToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	svc := newTestJWT(t, 30*time.Minute, 480*time.Minute)
	other, err := NewJWTService("another-secret-of-reasonable-size!!", "HS256", 30*time.Minute, 480*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}

	token, err := other.GenerateUserToken(7, "buyer@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if _, err := svc.ValidateUserToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for foreign token, got %v", err)
	}
}

func TestNewJWTServiceRejectsNonHMACAlgorithms(t *testing.T) {
	if _, err := NewJWTService(testSecret, "RS256", time.Minute, time.Minute); err == nil {
		t.Fatal("expected an error for RS256")
	}
	if _, err := NewJWTService(testSecret, "HS999", time.Minute, time.Minute); err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
}
