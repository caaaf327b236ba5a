package model

import "time"

// Post is a blog entry.
//
// OWNERSHIP INVARIANT:
// UserID is set once at creation from the authenticated identity and never
// changes afterwards. CategoryID is mutable and nullable — a post can exist
// without a category, and deleting a category detaches its posts (the FK is
// declared ON DELETE SET NULL).
//
// ENRICHMENT FIELDS (User, Category):
// These are not columns on the posts table. Repository reads fill them from
// joins: User via an inner join on users (a post always has an owner),
// Category via a left join on categories (may be absent → nil).
// `omitempty` keeps them out of the JSON when a read path doesn't load them
// (e.g. the by-owner listing skips the owner summary — the caller already
// knows who they are).
type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	FeaturedImage *string   `json:"featured_image"`
	CategoryID    *int64    `json:"category_id"`
	UserID        int64     `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User     *UserSummary     `json:"user,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}
