package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 7)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	m := New(secret)

	var gotUID int
	var gotOK bool
	protected := m.Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// no token
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	protected(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bad token
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	protected(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token
	token, err := GenerateToken(secret, 42)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, 42, gotUID)
}
