package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(""); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	token, err := issuer.GenerateClientToken("kiosk-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateClientToken failed: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.ClientName != "kiosk-1" {
		t.Errorf("Expected client name kiosk-1, got %s", claims.ClientName)
	}

	if claims.Role != RoleChatClient {
		t.Errorf("Expected role %s, got %s", RoleChatClient, claims.Role)
	}

	if claims.ExpiresAt.Time.Sub(time.Now().Add(time.Hour)).Abs() > time.Minute {
		t.Error("Expected token to expire in one hour")
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")
	other, _ := NewTokenIssuer("other-secret")

	foreign, _ := other.GenerateClientToken("intruder", time.Hour)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		Role: RoleChatClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	wrongRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		Role: "device",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"signed with another secret", foreign},
		{"expired", expired},
		{"wrong role", wrongRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.ValidateToken(tt.token); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestGenerateClientToken_DefaultTTL(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	token, err := issuer.GenerateClientToken("", 0)
	if err != nil {
		t.Fatalf("GenerateClientToken failed: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.ExpiresAt.Time.Sub(time.Now().Add(DefaultTokenTTL)).Abs() > time.Minute {
		t.Error("Expected default lifetime")
	}
}
