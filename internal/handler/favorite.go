package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/service"
)

// FavoriteHandler serves the favorites endpoints. All routes require
// authentication; the userID always comes from the request context.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// favoritesResponse is the add/remove payload: a confirmation message
// plus the full updated list.
type favoritesResponse struct {
	Message   string           `json:"message"`
	Favorites []model.Favorite `json:"favorites"`
}

// HandleAdd appends a country to the caller's favorites.
//
// HTTP: POST /api/favorites  body: {code, name, flag}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body model.Favorite
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	favorites, err := h.favorites.Add(r.Context(), userID, body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favoritesResponse{
		Message:   "Added to favorites",
		Favorites: favorites,
	})
}

// HandleRemove deletes a favorite by code. Removing an absent code is
// a successful no-op.
//
// HTTP: DELETE /api/favorites/{code}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	favorites, err := h.favorites.Remove(r.Context(), userID, chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favoritesResponse{
		Message:   "Removed from favorites",
		Favorites: favorites,
	})
}

// HandleList returns the caller's favorites as a bare array, insertion
// order preserved.
//
// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	favorites, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}
