package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/api/handlers"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID string) *Claims {
	return &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func callerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetUserID(r)))
	})
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, nil)

	req := httptest.NewRequest(http.MethodGet, "/stream/folio.post.listFeed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("user-1")))
	rec := httptest.NewRecorder()

	m.RequireAuth(callerEcho()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestRequireAuth_QueryToken(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, nil)

	req := httptest.NewRequest(http.MethodGet, "/stream/x?access_token="+signToken(t, testSecret, validClaims("user-2")), nil)
	rec := httptest.NewRecorder()

	m.RequireAuth(callerEcho()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", rec.Body.String())
}

func TestRequireAuth_SubjectFallback(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, nil)

	claims := validClaims("")
	claims.Subject = "subject-user"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	rec := httptest.NewRecorder()

	m.RequireAuth(callerEcho()).ServeHTTP(rec, req)
	assert.Equal(t, "subject-user", rec.Body.String())
}

func TestRequireAuth_Rejects(t *testing.T) {
	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no credentials"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "another-secret", validClaims("user-1"))},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired)},
		{name: "no user", header: "Bearer " + signToken(t, testSecret, validClaims(""))},
	}

	m := NewJWTAuthMiddleware(testSecret, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			called := false
			m.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Unauthenticated", body["error"])
			assert.Equal(t, handlers.ReasonMissingCredentials, body["message"])
		})
	}
}

func TestRequireAuth_RejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, nil)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("user-1")).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"), "clients are limited independently")
}

func TestRateLimiter_BehindAuthLimitsPerUser(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Stop()

	m := NewJWTAuthMiddleware(testSecret, nil)
	handler := m.RequireAuth(rl.Middleware(callerEcho()))

	call := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(userID)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice"))
	assert.Equal(t, http.StatusOK, call("bob"), "users sharing an address get separate buckets")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(req))
}
