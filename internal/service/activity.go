package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/gateway/restcountries"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

// ActivityService tracks what a user looked at and wrote: the
// recently-viewed list and the per-country notes/ratings.
type ActivityService struct {
	users     repository.UserRepository
	notes     repository.NoteRepository
	countries CountryLookup
	logger    *slog.Logger
}

// CountryLookup is the slice of the gateway the enrichment needs. An
// interface here lets tests substitute canned country data without an
// HTTP server.
type CountryLookup interface {
	ByCodes(ctx context.Context, codes []string) ([]restcountries.Country, error)
}

// NewActivityService creates an ActivityService.
func NewActivityService(
	users repository.UserRepository,
	notes repository.NoteRepository,
	countries CountryLookup,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		users:     users,
		notes:     notes,
		countries: countries,
		logger:    logger,
	}
}

// RecordView pushes countryCode onto the front of the user's
// recently-viewed list. Codes are uppercased so a view of "est" and
// "EST" land on the same entry; the list keeps at most ten entries.
func (s *ActivityService) RecordView(ctx context.Context, userID, countryCode string) error {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if countryCode == "" {
		return apperror.ValidationFailed("countryCode", "Country code is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.RecentlyViewed = model.RecordView(user.RecentlyViewed, countryCode, time.Now().UTC())
	return s.users.Update(ctx, user)
}

// RecentCountry is one entry of the recently-viewed response: the
// stored view joined with live country data and the user's rating.
type RecentCountry struct {
	CountryCode string    `json:"countryCode"`
	ViewedAt    time.Time `json:"viewedAt"`
	Rating      int       `json:"rating,omitempty"`
	Name        string    `json:"name,omitempty"`
	Flag        string    `json:"flag,omitempty"`
	Region      string    `json:"region,omitempty"`
}

// RecentlyViewed returns the user's view history, most recent first,
// enriched with the country's name, flag, and region from the provider
// plus the user's own rating.
//
// The provider is asked for all codes in one batch call. An entry whose
// code the provider no longer resolves keeps its code and timestamp
// with the enrichment fields empty — stored history never disappears
// because the upstream data set changed.
func (s *ActivityService) RecentlyViewed(ctx context.Context, userID string) ([]RecentCountry, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(user.RecentlyViewed))
	for i, view := range user.RecentlyViewed {
		codes[i] = view.CountryCode
	}

	countries, err := s.countries.ByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	// A failed ratings query degrades the listing (no scores shown), it
	// does not fail it.
	ratings, err := s.notes.Ratings(ctx, userID, codes)
	if err != nil {
		s.logger.Warn("loading ratings for recently viewed failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		ratings = map[string]int{}
	}

	enriched := make([]RecentCountry, 0, len(user.RecentlyViewed))
	for _, view := range user.RecentlyViewed {
		entry := RecentCountry{
			CountryCode: view.CountryCode,
			ViewedAt:    view.ViewedAt,
			Rating:      ratings[view.CountryCode],
		}
		for i := range countries {
			if countries[i].MatchesCode(view.CountryCode) {
				entry.Name = countries[i].Name.Common
				entry.Flag = countries[i].Flags.PNG
				entry.Region = countries[i].Region
				break
			}
		}
		enriched = append(enriched, entry)
	}

	return enriched, nil
}

// UpsertNote saves the user's note text for a country, overwriting any
// existing note for the same (user, country) pair.
func (s *ActivityService) UpsertNote(ctx context.Context, userID, countryCode, text string) (*model.Note, error) {
	if countryCode == "" || text == "" {
		return nil, apperror.ValidationFailed("", "Country code and note are required")
	}

	note, err := s.notes.GetByUserAndCode(ctx, userID, countryCode)
	switch {
	case err == nil:
		note.Note = text
	case errors.Is(err, apperror.ErrNotFound):
		note = &model.Note{UserID: userID, CountryCode: countryCode, Note: text}
	default:
		return nil, err
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note saved",
		slog.String("userID", userID),
		slog.String("countryCode", countryCode),
	)
	return note, nil
}

// ListNotes returns every record where the user wrote note text,
// oldest first. Rating-only records are excluded.
func (s *ActivityService) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	return s.notes.ListWithNotes(ctx, userID)
}
