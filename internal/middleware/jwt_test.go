package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedMux(t *testing.T, auth *Auth) (http.Handler, *uuid.UUID) {
	t.Helper()

	var seenUser uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetUserIDFromContext(r.Context()); ok {
			seenUser = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return auth.Middleware(next), &seenUser
}

func TestPublicReadsSkipAuth(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	handler, _ := authedMux(t, auth)

	// Gallery and profile pages are browsable without an account
	for _, path := range []string{"/portfolio", "/user/profile"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "anonymous GET %s", path)
	}

	// Writes on the same paths still need a token
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/portfolio"},
		{http.MethodPut, "/portfolio"},
		{http.MethodDelete, "/portfolio"},
		{http.MethodPut, "/user/profile"},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "anonymous %s %s", tc.method, tc.path)
	}

	// Other reads stay protected
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conversations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnprotectedRoutes(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	handler, _ := authedMux(t, auth)

	for path := range UnprotectedRoutes {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "anonymous GET %s", path)
	}
}

func TestBearerTokenInjectsCaller(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	handler, seenUser := authedMux(t, auth)

	userID := uuid.New()
	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *seenUser)
}

func TestMalformedAuthorizationRejected(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	handler, _ := authedMux(t, auth)

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodPost, "/messages", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
