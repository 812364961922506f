package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/service"
)

// UserHandler serves the per-user routes: recently-viewed history,
// profile changes, password reset, and country notes.
type UserHandler struct {
	users    *service.UserService
	activity *service.ActivityService
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, activity *service.ActivityService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, activity: activity, logger: logger}
}

// HandleRecentlyViewed returns the caller's view history, most recent
// first, enriched with live country data and stored ratings.
//
// HTTP: GET /api/users/recently-viewed
func (h *UserHandler) HandleRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	recent, err := h.activity.RecentlyViewed(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recent)
}

// HandleUpdateProfile changes the caller's username and/or email.
//
// HTTP: PUT /api/users/profile  body: {username, email}
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Username: body.Username,
		Email:    body.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    profileOf(user),
	})
}

// HandleResetPassword replaces the caller's password after checking
// the current one.
//
// HTTP: PUT /api/users/reset-password  body: {currentPassword, newPassword}
func (h *UserHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ResetPassword(r.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
}

// HandleUpsertNote saves the caller's note for a country, overwriting
// any existing note for the same country.
//
// HTTP: POST /api/users/note  body: {countryCode, note}
func (h *UserHandler) HandleUpsertNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		CountryCode string `json:"countryCode"`
		Note        string `json:"note"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.activity.UpsertNote(r.Context(), userID, body.CountryCode, body.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note saved successfully",
		"review":  note,
	})
}

// noteEntry is the notes-list projection: only the country, the text,
// and when it was first written.
type noteEntry struct {
	CountryCode string    `json:"countryCode"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HandleListNotes returns every country note the caller has written.
//
// HTTP: GET /api/users/notes
func (h *UserHandler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	notes, err := h.activity.ListNotes(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]noteEntry, 0, len(notes))
	for _, n := range notes {
		entries = append(entries, noteEntry{
			CountryCode: n.CountryCode,
			Note:        n.Note,
			CreatedAt:   n.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}
