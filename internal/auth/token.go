package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failure kinds. Callers that need to branch (e.g. the
// auth middleware, tests) use errors.Is against these.
var (
	ErrTokenMalformed = errors.New("session token is malformed")
	ErrTokenSignature = errors.New("session token signature is invalid")
	ErrTokenExpired   = errors.New("session token has expired")
)

// SessionClaims are the identity claims carried by a session token.
type SessionClaims struct {
	UserID        string `json:"sub,omitempty"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed session tokens.
//
// There is no revocation list: a token stays valid until its expiry even if
// the account is disabled afterwards. This is a deliberate, documented
// limitation of the platform.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed session token for the user with the configured TTL.
func (tm *TokenManager) Issue(userID, email, role string, emailVerified bool) (string, error) {
	return tm.IssueWithTTL(userID, email, role, emailVerified, tm.ttl)
}

// IssueWithTTL creates a signed session token with an explicit TTL.
func (tm *TokenManager) IssueWithTTL(userID, email, role string, emailVerified bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:        userID,
		Email:         email,
		Role:          role,
		EmailVerified: emailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates a session token, returning its claims.
// Malformed structure, bad signature and expiry each map to a distinct
// error kind.
func (tm *TokenManager) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("failed to parse session token: %w", err)
		}
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
