package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shreyash/bloghub/internal/config"
	"github.com/shreyash/bloghub/internal/server"
)

// These tests drive the fully wired router — middleware, auth gate,
// handlers, database — the way a real client would.

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Port:       0,
		DBPath:     ":memory:",
		JWTSecret:  "test-secret-at-least-16-chars!!",
		Env:        "test",
		CORSOrigin: "*",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := server.New(cfg, logger)
	if err != nil {
		t.Fatalf("setup: server.New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// signUp registers a user through the API and returns their token.
func signUp(t *testing.T, h http.Handler, username string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"password123"}`, username, username)
	rr := do(t, h, http.MethodPost, "/api/auth/register", body, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup: register: status %d, body %s", rr.Code, rr.Body.String())
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("setup: decoding register response: %v", err)
	}
	return res.Token
}

func TestServer_Welcome(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Welcome")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestServer_AuthFlow(t *testing.T) {
	h := newTestServer(t)

	token := signUp(t, h, "alice")

	// /me works with the token
	rr := do(t, h, http.MethodGet, "/api/auth/me", "", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"alice"`)

	// and is gated without one
	rr = do(t, h, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Authentication required")

	// login with the same credentials works
	rr = do(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_PostLifecycle(t *testing.T) {
	h := newTestServer(t)
	token := signUp(t, h, "alice")

	// anonymous writes are rejected by the gate
	rr := do(t, h, http.MethodPost, "/api/posts", `{"title":"nope","content":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// create a category, then a post in it
	rr = do(t, h, http.MethodPost, "/api/categories", `{"name":"Go"}`, token)
	assert.Equal(t, http.StatusCreated, rr.Code)
	var category struct {
		ID int64 `json:"id"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&category))

	body := fmt.Sprintf(`{"title":"Hello Go","content":"first post","category_id":%d}`, category.ID)
	rr = do(t, h, http.MethodPost, "/api/posts", body, token)
	assert.Equal(t, http.StatusCreated, rr.Code)
	var post struct {
		ID       int64 `json:"id"`
		Category *struct {
			Name string `json:"name"`
		} `json:"category"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&post))
	if assert.NotNil(t, post.Category) {
		assert.Equal(t, "Go", post.Category.Name)
	}

	// anonymous reads are fine
	rr = do(t, h, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// a second user may read but not delete
	otherToken := signUp(t, h, "bob")
	rr = do(t, h, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), "", otherToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// the owner deletes
	rr = do(t, h, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), "", token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_ListPagination(t *testing.T) {
	h := newTestServer(t)
	token := signUp(t, h, "alice")

	for i := 1; i <= 12; i++ {
		body := fmt.Sprintf(`{"title":"post %02d","content":"body"}`, i)
		rr := do(t, h, http.MethodPost, "/api/posts", body, token)
		assert.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := do(t, h, http.MethodGet, "/api/posts?page=2&limit=5", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Posts      []struct{ Title string } `json:"posts"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	assert.Equal(t, 12, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Len(t, page.Posts, 5)
	assert.Equal(t, "post 07", page.Posts[0].Title)
}

func TestServer_Metrics(t *testing.T) {
	h := newTestServer(t)

	// generate some traffic first
	do(t, h, http.MethodGet, "/api/posts", "", "")

	rr := do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "bloghub_http_requests_total"),
		"scrape output should contain the request counter")
}
