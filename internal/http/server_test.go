package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yashx007/Finance-App/internal/auth"
	"github.com/yashx007/Finance-App/internal/services"
	"github.com/yashx007/Finance-App/internal/store/memory"
)

const testSecret = "unit-test-secret-0123456789"

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	verifier := auth.NewVerifier(testSecret)
	srv := NewServer(":0", services.NewTransactionService(st, nil), st, st, verifier)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, st
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.NewVerifier(testSecret).Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doRequest(srv *Server, method, target, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestAuthMissingTokenIsForbidden(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/api/transactions", "", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", rr.Code)
	}
}

func TestAuthBadTokenIsUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/api/transactions", "not-a-token", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rr.Code)
	}

	// Validly signed but expired token is also 401, not 403.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	rr = doRequest(srv, http.MethodGet, "/api/transactions", signed, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rr.Code)
	}

	// A malformed multi-part header still presented a credential.
	rr = doRequest(srv, http.MethodGet, "/api/transactions", "abc def", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", rr.Code)
	}
}

func TestAuthValidTokenPasses(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/api/transactions", bearerToken(t), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rr.Code, rr.Body.String())
	}
	var txs []json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &txs); err != nil {
		t.Fatalf("list response not a JSON array: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(txs))
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/api/transactions", bearerToken(t), "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options=%q", got)
	}
}

func TestUnknownMethodIsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodDelete, "/api/dashboard/summary", bearerToken(t), "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
