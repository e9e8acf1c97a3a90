package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleChatClient is the only role accepted on the chat socket
const RoleChatClient = "chat_client"

// DefaultTokenTTL is used when a token is minted without an explicit lifetime
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidRole is returned for well-formed tokens that are not chat client tokens
var ErrInvalidRole = errors.New("token is not a chat client token")

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	ClientName string `json:"client_name,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates chat access tokens with a shared secret
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates an issuer; the secret must not be empty
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("access secret is required")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// GenerateClientToken generates a JWT token that opens the chat socket
func (i *TokenIssuer) GenerateClientToken(clientName string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &JWTClaims{
		ClientName: clientName,
		Role:       RoleChatClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (i *TokenIssuer) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.Role != RoleChatClient {
		return nil, ErrInvalidRole
	}

	return claims, nil
}
