package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func salesClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":       float64(1),
		"username": "maria",
		"email":    "maria@chiral-robotics.com",
		"role":     "sales",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthMiddlewarePassesUserToHandler(t *testing.T) {
	auth := NewAuth(testSecret)

	var got User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFrom(r.Context())
	})

	r := httptest.NewRequest("GET", "/api/leads", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, salesClaims()))
	w := httptest.NewRecorder()

	auth.Middleware(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, User{ID: 1, Username: "maria", Email: "maria@chiral-robotics.com", Role: "sales"}, got)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	auth := NewAuth(testSecret)

	r := httptest.NewRequest("GET", "/api/leads", nil)
	w := httptest.NewRecorder()

	called := false
	auth.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	auth := NewAuth(testSecret)

	r := httptest.NewRequest("GET", "/api/leads", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", salesClaims()))
	w := httptest.NewRecorder()

	auth.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	auth := NewAuth(testSecret)

	claims := salesClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	r := httptest.NewRequest("GET", "/api/leads", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	w := httptest.NewRecorder()

	auth.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	auth := NewAuth(testSecret)

	handler := auth.Middleware(auth.RequireRole("admin")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

	// Sales role is forbidden.
	r := httptest.NewRequest("DELETE", "/api/leads/5", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, salesClaims()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin passes.
	claims := salesClaims()
	claims["role"] = "admin"
	r = httptest.NewRequest("DELETE", "/api/leads/5", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
