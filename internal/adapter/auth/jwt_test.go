package auth

import (
	"context"
	"testing"
	"time"

	"merchant-ledger/config"
	"merchant-ledger/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticatorForTest() *JWTAuthenticator {
	return NewJWTAuthenticator(config.AuthConfig{
		Secret: "test-secret",
		Issuer: "merchant-ledger",
	})
}

func TestJWTAuthenticator_IssueAndVerify(t *testing.T) {
	auth := newAuthenticatorForTest()
	var identity domain.Identity
	identity[0] = 0xAB

	credential, err := auth.Issue(identity, time.Hour)
	require.NoError(t, err)

	got, err := auth.Verify(context.Background(), credential)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestJWTAuthenticator_WrongSecret(t *testing.T) {
	auth := newAuthenticatorForTest()
	other := NewJWTAuthenticator(config.AuthConfig{
		Secret: "other-secret",
		Issuer: "merchant-ledger",
	})

	credential, err := other.Issue(domain.Identity{}, time.Hour)
	require.NoError(t, err)

	_, err = auth.Verify(context.Background(), credential)
	assert.Error(t, err)
}

func TestJWTAuthenticator_WrongIssuer(t *testing.T) {
	auth := newAuthenticatorForTest()
	other := NewJWTAuthenticator(config.AuthConfig{
		Secret: "test-secret",
		Issuer: "someone-else",
	})

	credential, err := other.Issue(domain.Identity{}, time.Hour)
	require.NoError(t, err)

	_, err = auth.Verify(context.Background(), credential)
	assert.Error(t, err)
}

func TestJWTAuthenticator_Expired(t *testing.T) {
	auth := newAuthenticatorForTest()

	credential, err := auth.Issue(domain.Identity{}, -time.Minute)
	require.NoError(t, err)

	_, err = auth.Verify(context.Background(), credential)
	assert.Error(t, err)
}

func TestJWTAuthenticator_RejectsUnexpectedAlg(t *testing.T) {
	auth := newAuthenticatorForTest()

	// alg=none must never verify, whatever the claims say.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": domain.Identity{}.String(),
		"iss": "merchant-ledger",
	})
	credential, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.Verify(context.Background(), credential)
	assert.Error(t, err)
}

func TestJWTAuthenticator_BadSubject(t *testing.T) {
	auth := newAuthenticatorForTest()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-hex-identity",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iss": "merchant-ledger",
	})
	credential, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.Verify(context.Background(), credential)
	assert.Error(t, err)
}
