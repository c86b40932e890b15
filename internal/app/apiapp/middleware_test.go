package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func signTestToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mw := AuthMiddleware("secret", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/communities/1/cases/1", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	mw := AuthMiddleware("secret", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/communities/1/cases/1", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", "ops", time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on an invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	mw := AuthMiddleware("secret", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/communities/1/cases/1", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "secret", "ops", time.Now().Add(-time.Hour)))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on an expired token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	mw := AuthMiddleware("secret", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/communities/1/cases/1", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "secret", "ops-user", time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || id.Subject != "ops-user" {
			t.Fatalf("identity mismatch: %+v ok=%v", id, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}
