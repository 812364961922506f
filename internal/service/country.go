package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/country-explorer/internal/gateway/restcountries"
)

// ViewRecorder is the slice of ActivityService the country lookups
// need: recording a view when a user opens a country by code.
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, countryCode string) error
}

// CountryService fronts the external provider for the country lookup
// endpoints. Most operations forward the provider's answer untouched;
// the two pieces of logic it owns are the pagination of the full list
// and the view-tracking side effect of a by-code lookup.
type CountryService struct {
	gateway *restcountries.Client
	views   ViewRecorder
	logger  *slog.Logger
}

// NewCountryService creates a CountryService.
func NewCountryService(gateway *restcountries.Client, views ViewRecorder, logger *slog.Logger) *CountryService {
	return &CountryService{gateway: gateway, views: views, logger: logger}
}

const (
	defaultPage  = 1
	defaultLimit = 5
)

// All returns one page of the full independent-country list.
//
// Pages are 1-indexed; page and limit fall back to their defaults when
// zero or negative. A page past the end of the list is an empty slice,
// not an error.
func (s *CountryService) All(ctx context.Context, page, limit int) ([]restcountries.Country, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	countries, err := s.gateway.All(ctx)
	if err != nil {
		return nil, err
	}

	start := (page - 1) * limit
	if start >= len(countries) {
		return []restcountries.Country{}, nil
	}
	end := start + limit
	if end > len(countries) {
		end = len(countries)
	}
	return countries[start:end], nil
}

// ByCode looks a single country up and records the view on the user's
// recently-viewed list.
//
// The recording is best-effort: a failed write must not turn a
// successful lookup into an error, so it is logged and swallowed. The
// stored code is uppercased regardless of how the caller spelled it.
func (s *CountryService) ByCode(ctx context.Context, userID, code string) (*restcountries.Country, error) {
	country, err := s.gateway.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if err := s.views.RecordView(ctx, userID, strings.ToUpper(code)); err != nil {
			s.logger.Warn("recording country view failed",
				slog.String("userID", userID),
				slog.String("code", code),
				slog.String("error", err.Error()),
			)
		}
	}

	return country, nil
}

// ByCodes batch-resolves a comma-separated code list.
func (s *CountryService) ByCodes(ctx context.Context, codes []string) ([]restcountries.Country, error) {
	return s.gateway.ByCodes(ctx, codes)
}

// The remaining lookups forward to the provider unchanged.

func (s *CountryService) ByName(ctx context.Context, name string) ([]restcountries.Country, error) {
	return s.gateway.ByName(ctx, name)
}

func (s *CountryService) ByRegion(ctx context.Context, region string) ([]restcountries.Country, error) {
	return s.gateway.ByRegion(ctx, region)
}

func (s *CountryService) ByLanguage(ctx context.Context, language string) ([]restcountries.Country, error) {
	return s.gateway.ByLanguage(ctx, language)
}

func (s *CountryService) ByCurrency(ctx context.Context, currency string) ([]restcountries.Country, error) {
	return s.gateway.ByCurrency(ctx, currency)
}

func (s *CountryService) ByDemonym(ctx context.Context, demonym string) ([]restcountries.Country, error) {
	return s.gateway.ByDemonym(ctx, demonym)
}

func (s *CountryService) ByCapital(ctx context.Context, capital string) ([]restcountries.Country, error) {
	return s.gateway.ByCapital(ctx, capital)
}

func (s *CountryService) BySubregion(ctx context.Context, subregion string) ([]restcountries.Country, error) {
	return s.gateway.BySubregion(ctx, subregion)
}

func (s *CountryService) ByTranslation(ctx context.Context, translation string) ([]restcountries.Country, error) {
	return s.gateway.ByTranslation(ctx, translation)
}
