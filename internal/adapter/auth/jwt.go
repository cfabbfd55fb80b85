// Package auth provides the bearer-credential authenticator that resolves
// caller identities. Record mutations are attributed to the identity a
// credential verifies to, never to a client-supplied field.
package auth

import (
	"context"
	"fmt"
	"time"

	"merchant-ledger/config"
	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthenticator implements ports.Authenticator using HS256 JWT. The token
// subject carries the caller's hex-encoded identity.
type JWTAuthenticator struct {
	secret []byte
	issuer string
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(cfg config.AuthConfig) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

var _ ports.Authenticator = (*JWTAuthenticator)(nil)

// Verify parses and validates a credential, returning the caller identity it
// attests to.
func (a *JWTAuthenticator) Verify(ctx context.Context, credential string) (domain.Identity, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parsing credential: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid credential claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return domain.Identity{}, fmt.Errorf("missing subject claim")
	}

	identity, err := domain.ParseIdentity(sub)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid identity in credential: %w", err)
	}

	return identity, nil
}

// Issue creates a signed credential for the given identity, valid for the
// given duration. Used by operator tooling and tests.
func (a *JWTAuthenticator) Issue(identity domain.Identity, validFor time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity.String(),
		"iat": now.Unix(),
		"exp": now.Add(validFor).Unix(),
		"iss": a.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing credential: %w", err)
	}
	return signed, nil
}
