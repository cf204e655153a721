// Package auth verifies the bearer tokens that identify API callers.
// Tokens are issued by an external identity provider and signed with a
// shared HMAC secret.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
)

// DefaultClockSkew is the leeway allowed when checking time-based claims.
const DefaultClockSkew = 2 * time.Minute

// Verifier validates bearer tokens.
type Verifier interface {
	// Verify validates tokenString and returns its claims.
	// Returns ErrInvalidToken, ErrExpiredToken, ErrTokenNotYetValid or
	// ErrInvalidSubject when the token is not acceptable.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims holds the verified contents of a token.
type Claims struct {
	// UserID is parsed from the sub claim.
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// hmacVerifier is an implementation of Verifier using HMAC-SHA256 signatures.
type hmacVerifier struct {
	signingKey []byte
	audience   string
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

// Ensure hmacVerifier implements Verifier interface
var _ Verifier = (*hmacVerifier)(nil)

// NewVerifier creates a Verifier for HS256 tokens signed with cfg.JWTSecret.
func NewVerifier(cfg config.AuthConfig) (Verifier, error) {
	return newHMACVerifier(cfg, time.Now)
}

func newHMACVerifier(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacVerifier, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacVerifier{
		signingKey: []byte(cfg.JWTSecret),
		audience:   cfg.Audience,
		timeFunc:   timeFunc,
		clockSkew:  DefaultClockSkew,
	}, nil
}

// Verify implements Verifier.Verify
func (v *hmacVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	now := v.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	registered := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		registered,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(registered.Subject)
	if err != nil || userID == uuid.Nil {
		log.Debug("token validation failed: subject is not a user ID")
		return nil, ErrInvalidSubject
	}

	claims := &Claims{
		UserID:  userID,
		Subject: registered.Subject,
		ID:      registered.ID,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}

	log.Debug("token validated successfully",
		"user_id", userID,
		"token_id", registered.ID,
		"expiry", claims.ExpiresAt)

	return claims, nil
}
