package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticKeySource serves canned keys so verification runs without network
type staticKeySource struct {
	keys map[string]*rsa.PublicKey
	err  error
}

func (s *staticKeySource) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.keys, nil
}

type tokenOpts struct {
	kid           string
	alg           string
	iss           string
	aud           string
	sub           string
	email         string
	emailVerified bool
	exp           int64
	nbf           int64
}

func defaultOpts() tokenOpts {
	return tokenOpts{
		kid:           "key-1",
		alg:           "RS256",
		iss:           "https://accounts.google.com",
		aud:           "belleza-client-id",
		sub:           "google-sub-1234",
		email:         "ana@example.com",
		emailVerified: true,
		exp:           time.Now().Add(time.Hour).Unix(),
	}
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, opts tokenOpts) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": opts.alg, "kid": opts.kid})
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"iss":            opts.iss,
		"aud":            opts.aud,
		"sub":            opts.sub,
		"email":          opts.email,
		"email_verified": opts.emailVerified,
		"name":           "Ana Prueba",
		"picture":        "https://example.com/ana.png",
		"exp":            opts.exp,
		"nbf":            opts.nbf,
	})
	require.NoError(t, err)

	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload)

	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func newTestVerifier(t *testing.T) (*IDTokenVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	source := &staticKeySource{keys: map[string]*rsa.PublicKey{"key-1": &key.PublicKey}}
	return NewIDTokenVerifier(source, "belleza-client-id"), key
}

func TestIDTokenVerifier_Valid(t *testing.T) {
	v, key := newTestVerifier(t)

	token := signIDToken(t, key, defaultOpts())
	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "google-sub-1234", identity.Subject)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.Equal(t, "Ana Prueba", identity.Name)
	assert.Equal(t, "https://example.com/ana.png", identity.Picture)
}

func TestIDTokenVerifier_MalformedStructure(t *testing.T) {
	v, _ := newTestVerifier(t)

	for _, raw := range []string{"", "one", "a.b", "a.b.c.d", "!!.!!.!!"} {
		_, err := v.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, ErrIDTokenRejected, "token %q", raw)
	}
}

func TestIDTokenVerifier_WrongKey(t *testing.T) {
	v, _ := newTestVerifier(t)

	// Signed by a key the key set does not contain
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token := signIDToken(t, otherKey, defaultOpts())
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_UnknownKid(t *testing.T) {
	v, key := newTestVerifier(t)

	opts := defaultOpts()
	opts.kid = "key-unknown"
	token := signIDToken(t, key, opts)

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_TamperedPayload(t *testing.T) {
	v, key := newTestVerifier(t)

	token := signIDToken(t, key, defaultOpts())

	// Swap the payload for one with a different subject, keeping the
	// original signature; plausible claims must not survive a bad signature
	forgedPayload, err := json.Marshal(map[string]any{
		"iss": "https://accounts.google.com", "aud": "belleza-client-id",
		"sub": "attacker-sub", "email": "attacker@example.com",
		"email_verified": true, "exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forgedPayload) + "." + parts[2]

	_, err = v.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_Expired(t *testing.T) {
	v, key := newTestVerifier(t)

	opts := defaultOpts()
	opts.exp = time.Now().Add(-time.Minute).Unix()
	token := signIDToken(t, key, opts)

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_EmailNotVerified(t *testing.T) {
	v, key := newTestVerifier(t)

	opts := defaultOpts()
	opts.emailVerified = false
	token := signIDToken(t, key, opts)

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_WrongIssuerOrAudience(t *testing.T) {
	v, key := newTestVerifier(t)

	opts := defaultOpts()
	opts.iss = "https://evil.example.com"
	_, err := v.Verify(context.Background(), signIDToken(t, key, opts))
	assert.ErrorIs(t, err, ErrIDTokenRejected)

	opts = defaultOpts()
	opts.aud = "some-other-client"
	_, err = v.Verify(context.Background(), signIDToken(t, key, opts))
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_UnsupportedAlgorithm(t *testing.T) {
	v, key := newTestVerifier(t)

	opts := defaultOpts()
	opts.alg = "HS256"
	token := signIDToken(t, key, opts)

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}

func TestIDTokenVerifier_KeyFetchFailureFailsClosed(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	source := &staticKeySource{err: errors.New("network unreachable")}
	v := NewIDTokenVerifier(source, "belleza-client-id")

	token := signIDToken(t, key, defaultOpts())
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrIDTokenRejected)
}
