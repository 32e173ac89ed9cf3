package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise-backend/internal/security"
)

func TestRequireOperator(t *testing.T) {
	tokens := security.NewTokenManager("unit-test-secret-0123456789abcdef", 60)
	middleware := NewAuthMiddleware(tokens)

	handler := middleware.RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := operatorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, int32(9), claims.UserID)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("Valid token", func(t *testing.T) {
		token, err := tokens.GenerateToken(9, "op@example.com", "OPERATOR")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := security.NewTokenManager("another-secret-fedcba9876543210aa", 60)
		token, err := other.GenerateToken(9, "op@example.com", "OPERATOR")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
