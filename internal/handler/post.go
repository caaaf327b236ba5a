package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shreyash/bloghub/internal/auth"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PostHandler exposes the post listing, search and CRUD endpoints.
type PostHandler struct {
	posts     *service.PostService
	responder responder
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger, devDetail bool) *PostHandler {
	return &PostHandler{
		posts:     posts,
		responder: newResponder(logger, devDetail),
	}
}

// pagination is the metadata block attached to paginated listings.
type pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// postPage is the {posts, pagination} listing envelope.
type postPage struct {
	Posts      []model.Post `json:"posts"`
	Pagination pagination   `json:"pagination"`
}

// queryInt reads an integer query parameter, falling back to def when the
// value is missing or not a number. Zero and negative values are NOT
// corrected — they flow into the offset arithmetic exactly as sent, which
// is long-standing observable behavior clients may rely on.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// totalPages is ceil(total/limit). A non-positive limit would divide by
// zero (or produce nonsense), so it reports 0 pages instead.
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (h *PostHandler) writePage(w http.ResponseWriter, posts []model.Post, total, page, limit int) {
	h.responder.writeJSON(w, http.StatusOK, postPage{
		Posts: posts,
		Pagination: pagination{
			Total:       total,
			TotalPages:  totalPages(total, limit),
			CurrentPage: page,
			Limit:       limit,
		},
	})
}

// HandleList returns one page of all posts, newest first.
//
// HTTP: GET /api/posts?page=1&limit=10
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", defaultPage)
	limit := queryInt(r, "limit", defaultLimit)

	posts, total, err := h.posts.List(r.Context(), page, limit)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.writePage(w, posts, total, page, limit)
}

// HandleGet returns a single post with owner and category attached.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "Post not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, post)
}

// postBody is the request shape shared by create and update. Create reads
// the values; update cares whether each pointer is nil (absent key) or set.
type postBody struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	CategoryID    *int64  `json:"category_id"`
	FeaturedImage *string `json:"featured_image"`
}

// HandleCreate inserts a post owned by the caller.
//
// HTTP: POST /api/posts (authenticated)
// Body: {"title": "...", "content": "...", "category_id": 1, "featured_image": "https://..."}
//
// The owner always comes from the token, never from the body — there is no
// user_id field to send.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
		return
	}

	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	input := service.PostInput{
		CategoryID:    req.CategoryID,
		FeaturedImage: req.FeaturedImage,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Content != nil {
		input.Content = *req.Content
	}

	post, err := h.posts.Create(r.Context(), identity, input)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate applies a partial update to a post the caller owns.
//
// HTTP: PUT /api/posts/{id} (authenticated, owner only)
//
// Absent keys leave fields untouched. "category_id": 0 detaches the
// category; "featured_image": "" removes the image.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
		return
	}

	id, err := idParam(r, "id", "Post not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	post, err := h.posts.Update(r.Context(), identity, id, service.PostUpdate{
		Title:         req.Title,
		Content:       req.Content,
		CategoryID:    req.CategoryID,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post the caller owns.
//
// HTTP: DELETE /api/posts/{id} (authenticated, owner only)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
		return
	}

	id, err := idParam(r, "id", "Post not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), identity, id); err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, successMessage("Post deleted successfully"))
}

// HandleListByUser returns all of the caller's posts, newest first.
//
// HTTP: GET /api/posts/user (authenticated)
func (h *PostHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Authentication required"})
		return
	}

	posts, err := h.posts.ListByOwner(r.Context(), identity)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, struct {
		Posts []model.Post `json:"posts"`
	}{Posts: posts})
}

// HandleListByCategory returns one page of posts in a category.
//
// HTTP: GET /api/posts/category/{categoryId}?page=1&limit=10
//
// An unknown category is an empty page with total 0, not a 404.
func (h *PostHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := idParam(r, "categoryId", "Category not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	page := queryInt(r, "page", defaultPage)
	limit := queryInt(r, "limit", defaultLimit)

	posts, total, err := h.posts.ListByCategory(r.Context(), categoryID, page, limit)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.writePage(w, posts, total, page, limit)
}

// HandleSearch finds posts matching the query in title or content.
//
// HTTP: GET /api/posts/search?q=term
//
// Search is unpaginated — the full match set comes back, newest first.
func (h *PostHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, struct {
		Posts []model.Post `json:"posts"`
	}{Posts: posts})
}
