package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

type stubRoles map[string]string

func (s stubRoles) Role(_ context.Context, userID string) (string, error) {
	role, ok := s[userID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	if role == "boom" {
		return "", errors.New("db down")
	}
	return role, nil
}

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: sub + "@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuth(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	roles := stubRoles{"u-customer": "customer", "u-broken": "boom"}

	var gotUser, gotRole string
	h := Auth(verifier, roles, util.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r.Context())
		gotRole = Role(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
		wantRole   string
	}{
		{"valid customer", "Bearer " + signToken(t, testSecret, "u-customer", time.Now().Add(time.Hour)), http.StatusNoContent, "u-customer", "customer"},
		{"no profile yet", "Bearer " + signToken(t, testSecret, "u-new", time.Now().Add(time.Hour)), http.StatusNoContent, "u-new", ""},
		{"missing header", "", http.StatusUnauthorized, "", ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "", ""},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "u-customer", time.Now().Add(time.Hour)), http.StatusUnauthorized, "", ""},
		{"expired", "Bearer " + signToken(t, testSecret, "u-customer", time.Now().Add(-time.Minute)), http.StatusUnauthorized, "", ""},
		{"role lookup fails", "Bearer " + signToken(t, testSecret, "u-broken", time.Now().Add(time.Hour)), http.StatusInternalServerError, "", ""},
	}

	for _, tc := range tests {
		gotUser, gotRole = "", ""
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
		if gotUser != tc.wantUser || gotRole != tc.wantRole {
			t.Errorf("%s: user/role = %q/%q, want %q/%q", tc.name, gotUser, gotRole, tc.wantUser, tc.wantRole)
		}
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("recycler", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role       string
		wantStatus int
	}{
		{"recycler", http.StatusNoContent},
		{"admin", http.StatusNoContent},
		{"customer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithUser(req.Context(), "u1", tc.role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.wantStatus {
			t.Errorf("role %q: status = %d, want %d", tc.role, rec.Code, tc.wantStatus)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "0b6c9d2e-3f5a-4c8b-9e1d-2a7f6b5c4d3e")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "0b6c9d2e-3f5a-4c8b-9e1d-2a7f6b5c4d3e" {
		t.Errorf("propagated id = %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen == "not-a-uuid" || seen == "" {
		t.Errorf("invalid id should be replaced, got %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Error("response header does not match context id")
	}
}

func TestAccessLogRecoversPanics(t *testing.T) {
	h := AccessLog(util.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collections", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		trustProxy bool
		want       string
	}{
		{"peer address", "", false, "10.0.0.5"},
		{"forwarded header ignored without proxy", "41.66.1.2", false, "10.0.0.5"},
		{"last hop behind proxy", "1.2.3.4, 41.66.1.2", true, "41.66.1.2"},
		{"proxy without header", "", true, "10.0.0.5"},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:4312"
		if tc.xff != "" {
			req.Header.Set("X-Forwarded-For", tc.xff)
		}
		if got := clientIP(req, tc.trustProxy); got != tc.want {
			t.Errorf("%s: clientIP() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRateLimitKeyPerWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	a := rateLimitKey("41.66.1.2", start)
	b := rateLimitKey("41.66.1.2", start.Add(900*time.Millisecond))
	c := rateLimitKey("41.66.1.2", start.Add(rateLimitWindow))

	if a != b {
		t.Errorf("same window keys differ: %q, %q", a, b)
	}
	if a == c {
		t.Errorf("next window reuses key %q", a)
	}
}
