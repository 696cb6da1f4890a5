package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"Folio/internal/api/handlers"
)

// Context keys for storing caller information
type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	JWTClaimsKey contextKey = "jwt_claims"
)

// Claims are the JWT claims Folio reads. UserID falls back to the subject.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Caller returns the user id the token speaks for
func (c *Claims) Caller() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTAuthMiddleware enforces bearer-token authentication for streaming routes.
// Tokens are HS256 JWTs signed with a shared secret.
type JWTAuthMiddleware struct {
	logger *slog.Logger
	secret []byte
}

// NewJWTAuthMiddleware creates a new auth middleware
func NewJWTAuthMiddleware(secret string, logger *slog.Logger) *JWTAuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &JWTAuthMiddleware{secret: []byte(secret), logger: logger}
}

// RequireAuth ensures the request carries a valid token.
// Browsers cannot set headers on websocket upgrades, so the token may also
// arrive as the access_token query parameter.
// If not authenticated, returns 401 missing_credentials.
func (m *JWTAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handlers.WriteUnauthenticated(w)
			return
		}

		claims, err := m.Verify(token)
		if err != nil {
			m.logger.Warn("authentication failed",
				"ip", r.RemoteAddr,
				"path", r.URL.Path,
				"error", err)
			handlers.WriteUnauthenticated(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.Caller())
		ctx = context.WithValue(ctx, JWTClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify checks an HS256 token and returns its claims
func (m *JWTAuthMiddleware) Verify(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("HS256 verification failed: secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("HS256 verification failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("HS256 verification failed: invalid claims")
	}
	if claims.Caller() == "" {
		return nil, errors.New("token names no user")
	}
	return claims, nil
}

// GetUserID extracts the caller id from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	return GetCallerID(r.Context())
}

// GetCallerID extracts the caller id from a context
func GetCallerID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// SetTestUserID injects a caller id into a context for handler tests
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}
