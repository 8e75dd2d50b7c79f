package util

import (
	"testing"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

func TestJWTManagerGenerateAndParse(t *testing.T) {
	ttl := time.Minute
	manager := NewJWTManager("top-secret", ttl)

	user := domain.User{Email: "user@example.com", DisplayName: "Tester", PhotoURL: "https://example.com/a.png"}
	token, expiresAt, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := claims.User(); *got != user {
		t.Fatalf("expected user %+v, got %+v", user, *got)
	}
	if claims.ID == "" {
		t.Fatalf("expected token id to be set")
	}

	second, _, _ := manager.Generate(user)
	if second == token {
		t.Fatalf("expected distinct tokens per session")
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	now := time.Now()
	manager.now = func() time.Time { return now }

	token, _, err := manager.Generate(domain.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	now = now.Add(2 * time.Minute)

	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}

func TestJWTManagerRejectsForeignSecret(t *testing.T) {
	token, _, _ := NewJWTManager("one", time.Minute).Generate(domain.User{Email: "a@example.com"})
	if _, err := NewJWTManager("two", time.Minute).Parse(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a != HashToken("token-a") || a == HashToken("token-b") {
		t.Fatalf("expected stable distinct hashes")
	}
}
