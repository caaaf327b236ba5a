package model

import "time"

// Category groups posts by topic. Name is unique across the table.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategorySummary is the category enrichment attached to posts.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
