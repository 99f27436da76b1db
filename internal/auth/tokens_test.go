package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/platform/httpx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute, time.Hour)
	raw, exp, err := issuer.Issue(42, KindAccess)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, exp, claims.ExpiresAt, time.Second)
}

func TestTokenKindMismatch(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute, time.Hour)
	refresh, _, err := issuer.Issue(1, KindRefresh)
	require.NoError(t, err)

	_, err = issuer.Parse(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = issuer.Parse(refresh, KindReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute, time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }
	raw, _, err := issuer.Issue(1, KindAccess)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Parse(raw, KindAccess)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenWrongSecretOrAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute, time.Hour)
	other := NewTokenIssuer(strings.Repeat("x", 32), time.Minute, time.Hour)
	raw, _, err := other.Issue(1, KindAccess)
	require.NoError(t, err)
	_, err = issuer.Parse(raw, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sportportal", Subject: "1", ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Kind:             KindAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPair(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 30*time.Minute, time.Hour)
	pair, err := issuer.Pair(7)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(1800), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}
