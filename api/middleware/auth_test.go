package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/wishlist-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthenticator struct {
	identity *auth.Identity
	err      error
	seen     string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	s.seen = token
	return s.identity, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	stub := &stubAuthenticator{}
	handler := Auth(stub, nil)(okHandler())

	for _, header := range []string{"", "Bearer", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401 got %d", header, resp.Code)
		}
	}
	if stub.seen != "" {
		t.Fatalf("authenticator should not be called, saw %q", stub.seen)
	}
}

func TestAuthPropagatesAuthenticatorError(t *testing.T) {
	stub := &stubAuthenticator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")}
	handler := Auth(stub, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if stub.seen != "abc.def" {
		t.Fatalf("unexpected token %q", stub.seen)
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	want := &auth.Identity{UserID: uuid.New(), Email: "a@example.com"}
	stub := &stubAuthenticator{identity: want}

	var got *auth.Identity
	handler := Auth(stub, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"Bearer tok", "Token tok", "bearer   tok"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%q: expected 200 got %d", header, resp.Code)
		}
		if stub.seen != "tok" {
			t.Fatalf("%q: unexpected token %q", header, stub.seen)
		}
		if got == nil || got.UserID != want.UserID {
			t.Fatalf("identity not propagated: %+v", got)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(nil)(okHandler())

	cases := []struct {
		name     string
		identity *auth.Identity
		want     int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular", &auth.Identity{UserID: uuid.New()}, http.StatusForbidden},
		{"staff", &auth.Identity{UserID: uuid.New(), IsStaff: true}, http.StatusOK},
		{"superuser", &auth.Identity{UserID: uuid.New(), IsSuperuser: true}, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.identity != nil {
			req = req.WithContext(WithIdentity(req.Context(), tc.identity))
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(resp.Header().Get("X-Request-Id")); err != nil {
		t.Fatalf("expected generated uuid: %v", err)
	}
}
