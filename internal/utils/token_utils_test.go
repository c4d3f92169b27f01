package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestActorToken_RoundTrip(t *testing.T) {
	token, err := GenerateActorToken("cashier-1", testSecret, time.Hour, "pos-test")
	require.NoError(t, err)

	claims, err := ParseActorToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "cashier-1", claims.Subject)
	assert.Equal(t, "pos-test", claims.Issuer)
}

func TestParseActorToken_Expired(t *testing.T) {
	token, err := GenerateActorToken("cashier-1", testSecret, -time.Minute, "pos-test")
	require.NoError(t, err)

	_, err = ParseActorToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseActorToken_WrongSecret(t *testing.T) {
	token, err := GenerateActorToken("cashier-1", testSecret, time.Hour, "pos-test")
	require.NoError(t, err)

	_, err = ParseActorToken(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseActorToken_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseActorToken(token, testSecret)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestGenerateActorToken_RequiresActor(t *testing.T) {
	_, err := GenerateActorToken("", testSecret, time.Hour, "pos-test")
	assert.ErrorIs(t, err, ErrMissingSubject)
}
