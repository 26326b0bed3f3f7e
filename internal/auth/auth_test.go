package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("secret", "user-123", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	a := NewAuthenticator(zap.NewNop(), "secret")
	ctx, err := a.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	sub, ok := SubjectFromContext(ctx)
	if !ok || sub != "user-123" {
		t.Errorf("expected subject=user-123, got %q (ok=%v)", sub, ok)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _ := GenerateToken("other", "user-123", time.Hour)

	a := NewAuthenticator(nil, "secret")
	if _, err := a.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	t.Parallel()

	token, _ := GenerateToken("secret", "user-123", -time.Minute)

	a := NewAuthenticator(nil, "secret")
	if _, err := a.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	if got, ok := BearerToken("Bearer abc"); !ok || got != "abc" {
		t.Errorf("expected abc, got %q (ok=%v)", got, ok)
	}
	if got, ok := BearerToken("bearer   xyz "); !ok || got != "xyz" {
		t.Errorf("expected xyz, got %q (ok=%v)", got, ok)
	}
	if got, ok := BearerToken("raw-token"); !ok || got != "raw-token" {
		t.Errorf("expected raw-token, got %q (ok=%v)", got, ok)
	}
	if _, ok := BearerToken("  "); ok {
		t.Errorf("expected ok=false for empty header")
	}
}
