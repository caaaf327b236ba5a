package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shreyash/bloghub/internal/auth"
	"github.com/shreyash/bloghub/internal/handler"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository/sqlite"
	"github.com/shreyash/bloghub/internal/service"
)

// Handler tests run against the real services and an in-memory SQLite
// database. The handlers are thin; what's worth testing is the full
// request→JSON round trip, and stubbing the services would test nothing.

type api struct {
	db         *sqlite.DB
	auth       *handler.AuthHandler
	posts      *handler.PostHandler
	categories *handler.CategoryHandler
}

func newTestAPI(t *testing.T) *api {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("setup: opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("setup: NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authSvc := service.NewAuthService(db.Users, tokens, passwords, logger)
	postSvc := service.NewPostService(db.Posts, logger)
	categorySvc := service.NewCategoryService(db.Categories, logger)

	return &api{
		db:         db,
		auth:       handler.NewAuthHandler(authSvc, logger, false),
		posts:      handler.NewPostHandler(postSvc, logger, false),
		categories: handler.NewCategoryHandler(categorySvc, logger, false),
	}
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser stamps an authenticated identity onto the request, standing in
// for the RequireAuth middleware (which has its own tests).
func asUser(r *http.Request, identity model.Identity) *http.Request {
	return r.WithContext(auth.ContextWithIdentity(r.Context(), identity))
}

// withURLParam attaches a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// registerUser creates an account through the register endpoint and
// returns the identity the rest of a test can act as.
func registerUser(t *testing.T, a *api, username string) model.Identity {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"password123"}`, username, username)
	rr := httptest.NewRecorder()
	a.auth.HandleRegister(rr, jsonRequest(http.MethodPost, "/api/auth/register", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup: register %q: status %d, body %s", username, rr.Code, rr.Body.String())
	}

	var res struct {
		User model.PublicUser `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("setup: decoding register response: %v", err)
	}
	return model.Identity{ID: res.User.ID, Email: username + "@example.com", Username: username}
}

// createPost inserts a post through the create endpoint.
func createPost(t *testing.T, a *api, owner model.Identity, title string) model.Post {
	t.Helper()

	body := fmt.Sprintf(`{"title":%q,"content":"content of %s"}`, title, title)
	rr := httptest.NewRecorder()
	a.posts.HandleCreate(rr, asUser(jsonRequest(http.MethodPost, "/api/posts", body), owner))
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup: create post %q: status %d, body %s", title, rr.Code, rr.Body.String())
	}

	var post model.Post
	if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
		t.Fatalf("setup: decoding post: %v", err)
	}
	return post
}

// decodeMap parses a response body into a generic map, for asserting on
// envelope shape (which keys exist) rather than typed values.
func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return m
}
