package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/service"
)

// CategoryHandler exposes CRUD for the shared category taxonomy.
// Reads are public; writes sit behind the auth middleware (wired in the
// router, not here).
type CategoryHandler struct {
	categories *service.CategoryService
	responder  responder
}

func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger, devDetail bool) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		responder:  newResponder(logger, devDetail),
	}
}

// idParam pulls the {id} route parameter as an int64. A non-numeric id
// can't match any row, so it reports the same NotFound a missing row would.
func idParam(r *http.Request, name, notFoundMessage string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperror.NotFoundMsg(notFoundMessage)
	}
	return id, nil
}

// HandleList returns all categories ordered by name.
//
// HTTP: GET /api/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, categories)
}

// HandleGet returns one category.
//
// HTTP: GET /api/categories/{id}
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "Category not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, category)
}

// HandleCreate adds a category.
//
// HTTP: POST /api/categories (authenticated)
// Body: {"name": "...", "description": "..."}
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusCreated, category)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /api/categories/{id} (authenticated)
//
// Pointer fields distinguish "key absent" (nil, keep current value) from
// "key present" (apply). That's the whole partial-update contract.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "Category not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeInvalidBody(w)
		return
	}

	category, err := h.categories.Update(r.Context(), id, service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, category)
}

// HandleDelete removes a category, detaching any posts that used it.
//
// HTTP: DELETE /api/categories/{id} (authenticated)
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "Category not found")
	if err != nil {
		h.responder.writeError(w, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		h.responder.writeError(w, err)
		return
	}
	h.responder.writeJSON(w, http.StatusOK, successMessage("Category deleted successfully"))
}
