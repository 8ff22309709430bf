package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "showcase-gallery"
	testAudience = "showcase-gallery-api"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cl := Claims{UserID: "3f1c9a4e-0000-0000-0000-000000000001", Email: "alice@example.com", Username: "alice"}

	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, cl, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(60*time.Minute), tok.Exp, 5*time.Second)

	got, err := ValidateAccessToken(testSecret, testIssuer, testAudience, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, cl, got)
}

func TestValidateAccessTokenFailuresAreUniform(t *testing.T) {
	cl := Claims{UserID: "u1", Email: "a@example.com", Username: "a"}

	valid, err := NewAccessToken(testSecret, testIssuer, testAudience, cl, 60)
	require.NoError(t, err)
	expired, err := NewAccessToken(testSecret, testIssuer, testAudience, cl, -1)
	require.NoError(t, err)

	tests := []struct {
		name     string
		secret   string
		issuer   string
		audience string
		raw      string
	}{
		{"malformed token", testSecret, testIssuer, testAudience, "not-a-jwt"},
		{"wrong secret", "other-secret", testIssuer, testAudience, valid.Token},
		{"wrong issuer", testSecret, "someone-else", testAudience, valid.Token},
		{"wrong audience", testSecret, testIssuer, "other-api", valid.Token},
		{"expired", testSecret, testIssuer, testAudience, expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(tt.secret, tt.issuer, tt.audience, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidAccessToken)
		})
	}
}

func TestNewRefreshTokenIsRandomAndLong(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96) // 48 random bytes, hex encoded
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), a.Exp, 5*time.Second)
}

func TestHashRefreshRawIsStable(t *testing.T) {
	h1 := HashRefreshRaw("some-raw-token")
	h2 := HashRefreshRaw("some-raw-token")
	h3 := HashRefreshRaw("other-raw-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex
}
