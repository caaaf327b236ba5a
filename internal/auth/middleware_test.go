package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shreyash/bloghub/internal/model"
)

// okHandler records whether it ran and what identity it saw.
type okHandler struct {
	called   bool
	identity model.Identity
	found    bool
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity, h.found = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	identity := testIdentity()
	token, err := ts.Issue(identity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	next := &okHandler{}
	handler := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !next.called {
		t.Fatal("next handler was not called for a valid token")
	}
	if !next.found || next.identity != identity {
		t.Errorf("context identity = %+v (found=%v), want %+v", next.identity, next.found, identity)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _ := ts.Issue(testIdentity())

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "tampered token", header: "Bearer " + valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &okHandler{}
			handler := RequireAuth(ts)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
			if next.called {
				t.Error("next handler ran despite an invalid token — the gate leaked")
			}
		})
	}
}

func TestIdentityFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)

	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("IdentityFromContext() = ok for a request with no identity")
	}
}
