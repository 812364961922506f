// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces (not *sqlite.DB), so tests
// can substitute in-memory fakes and the storage engine can change without
// touching business logic.
package repository

import (
	"context"

	"github.com/sakif/country-explorer/internal/model"
)

// UserRepository persists user accounts together with their embedded
// favorites and recently-viewed sequences. The user row is the aggregate:
// Update writes the whole record back in one statement (read-modify-write,
// last write wins — there is no version check).
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict when the
	// username or email is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns apperror.ErrNotFound if no user has that ID.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByUsernameOrEmail resolves a login identifier — the same string is
	// matched against both columns. Returns apperror.ErrNotFound on miss.
	GetByUsernameOrEmail(ctx context.Context, login string) (*model.User, error)

	// Update persists every mutable field of the aggregate: profile,
	// password hash, favorites, recently viewed. ErrConflict when a profile
	// change collides with another account's username/email.
	Update(ctx context.Context, user *model.User) error

	// UpsertByGitHubID creates the user on first GitHub sign-in and returns
	// the existing record on subsequent ones (matched on GitHubID).
	UpsertByGitHubID(ctx context.Context, user *model.User) error
}

// NoteRepository persists per-(user, country) note/rating records.
type NoteRepository interface {
	// GetByUserAndCode returns apperror.ErrNotFound if the user has no
	// record for that country code.
	GetByUserAndCode(ctx context.Context, userID, countryCode string) (*model.Note, error)

	// Save inserts the note if it has no ID yet, otherwise updates in place.
	Save(ctx context.Context, note *model.Note) error

	// ListWithNotes returns the user's records whose note text is non-empty,
	// oldest first.
	ListWithNotes(ctx context.Context, userID string) ([]model.Note, error)

	// Ratings returns countryCode → rating for the user's rated entries
	// among the given codes. Codes without a rating are absent from the map.
	Ratings(ctx context.Context, userID string, codes []string) (map[string]int, error)
}
