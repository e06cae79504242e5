package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		require.NotNil(t, claims)
		assert.Equal(t, wantUserID, claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue("user-1", "ana@example.com", "client", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Middleware(tm)(protectedHandler(t, "user-1")).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()

	Middleware(tm)(protectedHandler(t, "")).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestMiddleware_BadHeaderFormat(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, header := range []string{"Basic abc", "Bearer", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		Middleware(tm)(protectedHandler(t, "")).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.IssueWithTTL("user-1", "ana@example.com", "client", true, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	called := false
	Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	// Response must not leak any user data
	assert.NotContains(t, rec.Body.String(), "ana@example.com")
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	adminToken, err := tm.Issue("admin-1", "owner@example.com", "admin", true)
	require.NoError(t, err)
	clientToken, err := tm.Issue("user-1", "ana@example.com", "client", true)
	require.NoError(t, err)

	handler := Middleware(tm)(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
