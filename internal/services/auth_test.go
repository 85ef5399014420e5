package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

func testAuthService(t *testing.T) AuthService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	svc, err := NewAuthService(log, "Dona@Cesto.com", string(hash), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	svc := testAuthService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "dona@cesto.com", "segredo123")
	if err != nil || token == "" {
		t.Fatalf("Login: token=%q err=%v", token, err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "admin" || claims.Email != "dona@cesto.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("token should expire in the future: %v", claims.ExpiresAt)
	}
}

func TestAuthServiceRejectsBadCredentials(t *testing.T) {
	svc := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "outra@cesto.com", "segredo123"); err == nil || !strings.Contains(err.Error(), "Invalid email") {
		t.Fatalf("wrong email: %v", err)
	}
	if _, err := svc.Login(ctx, "dona@cesto.com", "errada"); err == nil || !strings.Contains(err.Error(), "Invalid password") {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); err == nil {
		t.Fatalf("empty credentials should fail")
	}
}

func TestAuthServiceRejectsTamperedToken(t *testing.T) {
	svc := testAuthService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "dona@cesto.com", "segredo123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Fatalf("tampered token should fail validation")
	}
	if _, err := svc.ValidateToken(""); err == nil {
		t.Fatalf("empty token should fail validation")
	}

	other, err := NewAuthService(testLoggerFor(t), "dona@cesto.com", "$2a$04$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("token signed with another secret should fail validation")
	}
}

func TestNewAuthServiceRequiresConfig(t *testing.T) {
	log := testLoggerFor(t)
	if _, err := NewAuthService(log, "", "hash", "secret", time.Hour); err == nil {
		t.Fatalf("missing email should fail")
	}
	if _, err := NewAuthService(log, "a@b.c", "", "secret", time.Hour); err == nil {
		t.Fatalf("missing hash should fail")
	}
	if _, err := NewAuthService(log, "a@b.c", "hash", "", time.Hour); err == nil {
		t.Fatalf("missing secret should fail")
	}
}

func testLoggerFor(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}
