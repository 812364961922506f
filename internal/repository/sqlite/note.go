package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

var _ repository.NoteRepository = (*DB)(nil)

// GetByUserAndCode retrieves the single note record for a (user, country)
// pair. sql.ErrNoRows is translated to our NotFound — callers use that to
// decide between the insert and update halves of an upsert.
func (db *DB) GetByUserAndCode(ctx context.Context, userID, countryCode string) (*model.Note, error) {
	var (
		n      model.Note
		rating sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, country_code, rating, review, note, created_at
		 FROM notes
		 WHERE user_id = ? AND country_code = ?`,
		userID, countryCode,
	).Scan(&n.ID, &n.UserID, &n.CountryCode, &rating, &n.Review, &n.Note, &n.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, fmt.Errorf("sqlite: getting note for %s/%s: %w", userID, countryCode, err)
	}

	n.Rating = int(rating.Int64)
	return &n, nil
}

// Save persists a note record. A record with no ID is new — it gets an ID
// and creation timestamp and is inserted; otherwise the mutable fields are
// updated in place. The UNIQUE(user_id, country_code) constraint backs up
// the one-record-per-pair rule if two inserts race.
func (db *DB) Save(ctx context.Context, note *model.Note) error {
	var rating any
	if note.Rating != 0 {
		rating = note.Rating
	}

	if note.ID == "" {
		note.ID = xid.New().String()
		note.CreatedAt = time.Now()

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO notes (id, user_id, country_code, rating, review, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			note.ID, note.UserID, note.CountryCode, rating, note.Review, note.Note, note.CreatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return apperror.Conflict("Note already exists for this country")
			}
			return fmt.Errorf("sqlite: inserting note for %s/%s: %w", note.UserID, note.CountryCode, err)
		}
		return nil
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes SET rating = ?, review = ?, note = ? WHERE id = ?`,
		rating, note.Review, note.Note, note.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Note not found")
	}
	return nil
}

// ListWithNotes returns the user's records that carry actual note text.
// Rating-only records are skipped — they exist for the recently-viewed
// enrichment, not for the notes listing.
func (db *DB) ListWithNotes(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, country_code, rating, review, note, created_at
		 FROM notes
		 WHERE user_id = ? AND note != ''
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes for %s: %w", userID, err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var (
			n      model.Note
			rating sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.CountryCode, &rating, &n.Review, &n.Note, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		n.Rating = int(rating.Int64)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// Ratings returns countryCode → rating for the user's rated records among
// the given codes, in one query. Used to decorate the recently-viewed
// listing without a round trip per entry.
func (db *DB) Ratings(ctx context.Context, userID string, codes []string) (map[string]int, error) {
	ratings := make(map[string]int, len(codes))
	if len(codes) == 0 {
		return ratings, nil
	}

	// database/sql has no slice expansion — build the placeholder list.
	placeholders := strings.Repeat("?,", len(codes))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(codes)+1)
	args = append(args, userID)
	for _, code := range codes {
		args = append(args, code)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT country_code, rating
		 FROM notes
		 WHERE user_id = ? AND rating IS NOT NULL AND country_code IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading ratings for %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			code   string
			rating int
		)
		if err := rows.Scan(&code, &rating); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rating row: %w", err)
		}
		ratings[strings.ToUpper(code)] = rating
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ratings: %w", err)
	}

	return ratings, nil
}
