package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thisisamish/cashcard-api/internal/auth"
)

func testTM(t *testing.T) *auth.TokenManager {
	t.Helper()
	return auth.NewTokenManager("acc", "ref", "cashcard-api", time.Minute, time.Hour)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	tm := testTM(t)
	_, refresh, _, err := tm.GeneratePair("sarah1", "owner")
	if err != nil {
		t.Fatal(err)
	}

	m := NewAuthMiddleware(tm)
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran despite bad token")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic c2FyYWgxOmFiYzEyMw=="},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not-a-token"},
		{"refresh token used as access", "Bearer " + refresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cashcards/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthSetsClaims(t *testing.T) {
	tm := testTM(t)
	access, _, _, err := tm.GeneratePair("sarah1", "owner")
	if err != nil {
		t.Fatal(err)
	}

	var gotUser, gotRole string
	h := NewAuthMiddleware(tm).Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = Username(r.Context())
		gotRole, _ = Role(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cashcards", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "sarah1" || gotRole != "owner" {
		t.Fatalf("claims = %q/%q, want sarah1/owner", gotUser, gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	tm := testTM(t)
	m := NewAuthMiddleware(tm)

	h := m.Auth(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	call := func(username, role string) int {
		t.Helper()
		access, _, _, err := tm.GeneratePair(username, role)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call("esuez5", "admin"); code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", code)
	}
	if code := call("sarah1", "owner"); code != http.StatusForbidden {
		t.Fatalf("owner status = %d, want 403", code)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cashcards", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, rec.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get("X-Request-Id")
	if header == "" || header != fromCtx {
		t.Fatalf("header %q and context %q must match and be non-empty", header, fromCtx)
	}

	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec2.Header().Get("X-Request-Id") == header {
		t.Fatal("request ids must differ between requests")
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
