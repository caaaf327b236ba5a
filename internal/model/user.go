// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash HAS json:"-"?
// The `json:"-"` tag tells encoding/json to NEVER serialize this field.
// But we don't rely on the tag alone — every outward-facing representation
// goes through the explicit Public() projection below, so even if the tag
// were removed by accident, handlers would still never leak the hash.
//
// WHY *string FOR Bio AND ProfileImage?
// These columns are nullable in the database. A pointer distinguishes
// "not set" (nil) from "set to empty string" — sql.Rows.Scan handles
// NULL → nil for us when scanning into a *string.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the outward-facing projection of a User.
// It structurally cannot contain the password hash.
type PublicUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public maps a User to its external representation.
// Every handler that returns a user goes through this — there is no
// code path that serializes a User directly.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// UserSummary is the owner enrichment attached to posts:
// just enough to display "who wrote this" next to a post.
type UserSummary struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profile_image"`
}

// Identity is the authenticated caller, derived from a verified token.
// It carries ONLY the fields embedded in the token claims — it is not
// re-validated against the store per request (stateless trust model).
// A deleted user's still-valid token is accepted until it expires.
type Identity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
