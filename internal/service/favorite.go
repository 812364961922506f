package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

// FavoriteService manages a user's favorite countries.
//
// The favorites live on the user aggregate, so every mutation is a
// read-modify-write of the whole user row. Concurrent requests for the
// same user follow last-write-wins; the sequence operations themselves
// (dedupe, ordering) live in the model package and are pure.
type FavoriteService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(users repository.UserRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{users: users, logger: logger}
}

// Add appends a country to the user's favorites and returns the updated
// list. Adding a code that is already present is a conflict. Codes are
// stored as posted — dedup compares them verbatim.
func (s *FavoriteService) Add(ctx context.Context, userID string, fav model.Favorite) ([]model.Favorite, error) {
	fav.Code = strings.TrimSpace(fav.Code)
	if fav.Code == "" {
		return nil, apperror.ValidationFailed("code", "Country code is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := model.AddFavorite(user.Favorites, fav)
	if err != nil {
		return nil, err
	}

	user.Favorites = updated
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("favorite added",
		slog.String("userID", userID),
		slog.String("code", fav.Code),
	)
	return user.Favorites, nil
}

// Remove deletes a country from the favorites by code and returns the
// updated list. Removing an absent code is a no-op, not an error.
func (s *FavoriteService) Remove(ctx context.Context, userID, code string) ([]model.Favorite, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Favorites = model.RemoveFavorite(user.Favorites, code)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("favorite removed",
		slog.String("userID", userID),
		slog.String("code", code),
	)
	return user.Favorites, nil
}

// List returns the user's favorites in insertion order.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.Favorite, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Favorites == nil {
		return []model.Favorite{}, nil
	}
	return user.Favorites, nil
}
