package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, compilation fails right here instead of at
// some distant call site. Standard Go practice for repository impls.
var _ repository.UserRepository = (*DB)(nil)

// encodeSequences marshals the favorites and recently-viewed lists into
// their JSON column representations. nil slices encode as "[]" so the
// columns never hold SQL NULL or the JSON literal null.
func encodeSequences(user *model.User) (favorites, recent string, err error) {
	favs := user.Favorites
	if favs == nil {
		favs = []model.Favorite{}
	}
	favBytes, err := json.Marshal(favs)
	if err != nil {
		return "", "", fmt.Errorf("encoding favorites: %w", err)
	}

	views := user.RecentlyViewed
	if views == nil {
		views = []model.RecentView{}
	}
	viewBytes, err := json.Marshal(views)
	if err != nil {
		return "", "", fmt.Errorf("encoding recently viewed: %w", err)
	}

	return string(favBytes), string(viewBytes), nil
}

// scanUser reads one users row. The scanner interface is satisfied by both
// *sql.Row and *sql.Rows, so this works for single and multi-row queries.
func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
		favs     string
		views    string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&githubID,
		&favs,
		&views,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.GitHubID = githubID.Int64

	if err := json.Unmarshal([]byte(favs), &u.Favorites); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}
	if err := json.Unmarshal([]byte(views), &u.RecentlyViewed); err != nil {
		return nil, fmt.Errorf("decoding recently viewed: %w", err)
	}

	return &u, nil
}

const userColumns = `id, username, email, password_hash, github_id, favorites, recently_viewed, created_at, updated_at`

// conflictFromUnique translates a SQLite UNIQUE violation on the users
// table into the conflict error callers report. Returns nil when err is
// not a uniqueness failure.
//
// The driver exposes no structured error codes worth depending on here, so
// we match the constraint name SQLite puts in the message.
func conflictFromUnique(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return apperror.Conflict("Username already exists")
	case strings.Contains(msg, "users.email"):
		return apperror.Conflict("Email already exists")
	default:
		return apperror.Conflict("user already exists")
	}
}

// Create inserts a new user, generating its ID and timestamps.
//
// ID GENERATION WITH xid: 20 URL-safe chars, sortable by creation time —
// shorter and friendlier than a UUID. The pointer receiver argument is
// modified in place so the caller gets the generated ID back.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	favs, views, err := encodeSequences(user)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	var githubID any
	if user.GitHubID != 0 {
		githubID = user.GitHubID
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		githubID,
		favs,
		views,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictFromUnique(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetByUsernameOrEmail resolves a login identifier against both identity
// columns — clients may sign in with either.
func (db *DB) GetByUsernameOrEmail(ctx context.Context, login string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		login, login)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user by login: %w", err)
	}
	return user, nil
}

// Update writes the whole aggregate back: profile fields, password hash,
// and both embedded sequences. This is the single persistence point for
// every favorites / recently-viewed / profile mutation — read-modify-write
// with no version check, so concurrent writers race and the last one wins.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	favs, views, err := encodeSequences(user)
	if err != nil {
		return fmt.Errorf("sqlite: updating user: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET username = ?, email = ?, password_hash = ?, favorites = ?, recently_viewed = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.Email,
		user.PasswordHash,
		favs,
		views,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if conflict := conflictFromUnique(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}

// UpsertByGitHubID creates the account on first GitHub sign-in and loads
// the existing record on subsequent ones. Matched on github_id — GitHub
// guarantees the numeric ID is stable and unique, unlike the login, which
// users can change.
func (db *DB) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, user.GitHubID)

	existing, err := scanUser(row)
	if err == nil {
		*user = *existing
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	// First sign-in. The GitHub login may already be taken as a local
	// username; retry once with the numeric ID suffixed rather than
	// failing the flow.
	err = db.Create(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		user.Username = fmt.Sprintf("%s-%d", user.Username, user.GitHubID)
		err = db.Create(ctx, user)
	}
	return err
}
