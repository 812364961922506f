// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"time"

	"github.com/sakif/country-explorer/internal/apperror"
)

// MaxRecentViews bounds the recently-viewed list to the 10 most recent
// distinct country codes. Older entries fall off the end.
const MaxRecentViews = 10

// Favorite is one entry in a user's favorites list.
//
// Code is the country code (cca2 or cca3) and must be unique within the
// list — that uniqueness is enforced by AddFavorite, not by the database.
// Name and Flag are denormalised display fields captured at add time so the
// list can be rendered without calling the country provider.
type Favorite struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// RecentView is one entry in a user's recently-viewed list.
// The list is kept most-recent-first; ViewedAt is when the country was
// last looked up, not when it first appeared.
type RecentView struct {
	CountryCode string    `json:"countryCode"`
	ViewedAt    time.Time `json:"viewedAt"`
}

// User represents a registered user account.
//
// Favorites and RecentlyViewed are embedded value sequences — the user row
// is the aggregate and is always loaded, modified in memory, and persisted
// as one unit. Two concurrent mutations of the same user race and the later
// write wins; acceptable for low-contention personal data.
//
// WHY PasswordHash `json:"-"`?
// The struct is serialised straight into API responses. The `-` tag makes
// encoding/json skip the field entirely, so the bcrypt hash can never leak
// into a response body.
//
// GitHubID is non-zero only for accounts created through GitHub sign-in.
type User struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	GitHubID       int64        `json:"-"`
	Favorites      []Favorite   `json:"favorites"`
	RecentlyViewed []RecentView `json:"recentlyViewed"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// AddFavorite returns a new sequence with f appended.
//
// The input sequence is never modified — callers assign the result back to
// the aggregate and persist the whole user. Returns ErrConflict if the code
// is already present; the stored sequence is unaffected by a rejected add.
func AddFavorite(favorites []Favorite, f Favorite) ([]Favorite, error) {
	for _, existing := range favorites {
		if existing.Code == f.Code {
			return nil, apperror.Conflict("Country already in favorites")
		}
	}

	out := make([]Favorite, 0, len(favorites)+1)
	out = append(out, favorites...)
	out = append(out, f)
	return out, nil
}

// RemoveFavorite returns a new sequence with every entry matching code
// removed. Removing a code that was never added is a no-op, not an error —
// the operation is idempotent.
func RemoveFavorite(favorites []Favorite, code string) []Favorite {
	out := make([]Favorite, 0, len(favorites))
	for _, f := range favorites {
		if f.Code != code {
			out = append(out, f)
		}
	}
	return out
}

// RecordView returns a new recently-viewed sequence with countryCode at the
// front, stamped with viewedAt.
//
// Re-viewing a code already in the list removes the old entry first, so the
// sequence holds distinct codes ordered by recency (not original insertion).
// The result is truncated to MaxRecentViews entries.
func RecordView(recent []RecentView, countryCode string, viewedAt time.Time) []RecentView {
	out := make([]RecentView, 0, len(recent)+1)
	out = append(out, RecentView{CountryCode: countryCode, ViewedAt: viewedAt})
	for _, rv := range recent {
		if rv.CountryCode != countryCode {
			out = append(out, rv)
		}
	}

	if len(out) > MaxRecentViews {
		out = out[:MaxRecentViews]
	}
	return out
}
