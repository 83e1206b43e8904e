package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "storefront"

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, testIssuer)
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	claims := NewSessionClaims("01USER", "Ada A.", "ada@example.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01USER", got.Subject)
	require.Equal(t, "Ada A.", got.Name)
	require.Equal(t, "ada@example.com", got.Email)
	require.NotEmpty(t, got.ID) // jti
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	// Issued in the past so it is already expired.
	claims := NewSessionClaims("01USER", "Ada", "ada@example.com", testIssuer, time.Hour, time.Now().UTC().Add(-2*time.Hour))
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.NotErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	other, err := NewHS256([]byte("another-secret-another-secret-xx"), testIssuer)
	require.NoError(t, err)

	claims := NewSessionClaims("01USER", "Ada", "ada@example.com", testIssuer, time.Hour, time.Now().UTC())
	forged, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(forged)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb"} {
		_, err := h.Verify(tok)
		require.ErrorIs(t, err, ErrMalformed)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	foreign, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), "someone-else")
	require.NoError(t, err)

	claims := NewSessionClaims("01USER", "Ada", "ada@example.com", "someone-else", time.Hour, time.Now().UTC())
	token, err := foreign.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}
