package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-tokens"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, 7*24*time.Hour)

	token, err := tm.Issue("user-1", "ana@example.com", "client", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "client", claims.Role)
	assert.False(t, claims.EmailVerified)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_VerifyExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.IssueWithTTL("user-1", "ana@example.com", "client", true, -time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_VerifyWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("a-completely-different-secret", time.Hour)

	token, err := tm.Issue("user-1", "ana@example.com", "client", true)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestTokenManager_VerifyMalformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestTokenManager_TamperedPayloadRejected(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Issue("user-1", "ana@example.com", "client", true)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a byte in the payload; signature no longer matches
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = tm.Verify(tampered)
	assert.Error(t, err)

	// Flip a byte in the signature
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered = parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestTokenManager_RoundTripClaims(t *testing.T) {
	tm := NewTokenManager(testSecret, 30*time.Minute)

	token, err := tm.Issue("user-9", "bruno@example.com", "admin", true)
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
	assert.Equal(t, "bruno@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.EmailVerified)
}
