package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func protected(t *testing.T, issuer string) (http.Handler, *int64) {
	t.Helper()
	var seen int64
	handler := AuthMiddleware(testSecret, issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Fatalf("expected user id in context")
		}
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func serve(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/bookings/current", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareExtractsUserID(t *testing.T) {
	handler, seen := protected(t, "")

	rec := serve(handler, signedToken(t, jwt.MapClaims{"user_id": float64(42)}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seen != 42 {
		t.Fatalf("expected user id 42, got %d", *seen)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	handler, _ := protected(t, "")

	if rec := serve(handler, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	handler, _ := protected(t, "")

	if rec := serve(handler, "not-a-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	handler, _ := protected(t, "")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(1),
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if rec := serve(handler, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRequiresExpiry(t *testing.T) {
	handler, _ := protected(t, "")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(1),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if rec := serve(handler, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token without exp, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	handler, _ := protected(t, "")

	token := signedToken(t, jwt.MapClaims{
		"user_id": float64(1),
		"exp":     jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	if rec := serve(handler, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthMiddlewareChecksIssuer(t *testing.T) {
	handler, seen := protected(t, "parkezy")

	wrong := signedToken(t, jwt.MapClaims{"user_id": float64(1), "iss": "someone-else"})
	if rec := serve(handler, wrong); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong issuer, got %d", rec.Code)
	}

	missing := signedToken(t, jwt.MapClaims{"user_id": float64(1)})
	if rec := serve(handler, missing); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing issuer, got %d", rec.Code)
	}

	good := signedToken(t, jwt.MapClaims{"user_id": float64(9), "iss": "parkezy"})
	if rec := serve(handler, good); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for matching issuer, got %d", rec.Code)
	}
	if *seen != 9 {
		t.Fatalf("expected user id 9, got %d", *seen)
	}
}
