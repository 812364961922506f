package model

import "time"

// Note is a user's personal record for one country: an optional 1–5 rating,
// an optional review, and an optional free-text note.
//
// There is at most one Note per (user, country code) pair — the notes
// repository enforces this with a UNIQUE constraint and upsert semantics.
// Rating 0 means "not rated"; omitempty keeps it out of JSON responses so
// clients don't mistake it for a real score.
type Note struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CountryCode string    `json:"countryCode"`
	Rating      int       `json:"rating,omitempty"`
	Review      string    `json:"review,omitempty"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}
