// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/shreyash/bloghub/internal/model"
)

// ListOptions carries offset pagination parameters.
//
// The values are passed through to the store AS PROVIDED — zero or negative
// numbers are not corrected here. Coercion (parse-with-default) happens at
// the HTTP boundary, and anything that survives it flows into the
// `(page-1)*limit` arithmetic untouched.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository stores user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByUsernameOrEmail reports whether any account already uses the
	// given username or email. Used by registration's uniqueness check.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// CategoryRepository stores categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
}

// PostRepository stores posts and performs their association enrichment.
//
// JOIN SEMANTICS (documented here because they differ per method):
//   - GetByID, List, ListByCategory, Search: owner via INNER JOIN on users
//     (every post has exactly one owner), category via LEFT JOIN on
//     categories (a post may have none → Category is nil).
//   - ListByUser: category LEFT JOIN only — the owner is the caller, no
//     point shipping their own summary back on every row.
type PostRepository interface {
	// Create inserts the post and fills ID and timestamps. It does NOT
	// re-read enrichment — callers follow up with GetByID (read-after-write).
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List returns one page of posts, newest first, plus the total count
	// of all posts (for totalPages arithmetic).
	List(ctx context.Context, opts ListOptions) ([]model.Post, int, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Post, error)
	ListByCategory(ctx context.Context, categoryID int64, opts ListOptions) ([]model.Post, int, error)
	// Search matches the query case-insensitively against title OR content.
	// No pagination — the full match set comes back, newest first.
	Search(ctx context.Context, query string) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}
