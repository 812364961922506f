package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/gateway/restcountries"
	"github.com/sakif/country-explorer/internal/service"
)

// CountryHandler serves the country lookup endpoints. Every route is a
// thin pass-through: decode the parameter, ask the service, return the
// provider's records as-is.
type CountryHandler struct {
	countries *service.CountryService
	logger    *slog.Logger
}

// NewCountryHandler creates a CountryHandler.
func NewCountryHandler(countries *service.CountryService, logger *slog.Logger) *CountryHandler {
	return &CountryHandler{countries: countries, logger: logger}
}

// HandleAll returns one page of the full country list.
//
// HTTP: GET /api/countries/all?page=1&limit=5
func (h *CountryHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	// Unparseable values fall back to the defaults, same as absent ones
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	countries, err := h.countries.All(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleByCode returns a single country and records the view on the
// caller's recently-viewed list.
//
// HTTP: GET /api/countries/code/{code}
func (h *CountryHandler) HandleByCode(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	country, err := h.countries.ByCode(r.Context(), userID, chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

// HandleByCodes batch-resolves a comma-separated code list.
//
// HTTP: GET /api/countries/codes?codes=est,pe,no
func (h *CountryHandler) HandleByCodes(w http.ResponseWriter, r *http.Request) {
	var codes []string
	for _, code := range strings.Split(r.URL.Query().Get("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}

	countries, err := h.countries.ByCodes(r.Context(), codes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// lookup builds a handler for the single-parameter lookup routes,
// which differ only in the URL parameter name and the service call.
func (h *CountryHandler) lookup(
	param string,
	fetch func(ctx context.Context, value string) ([]restcountries.Country, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := fetch(r.Context(), chi.URLParam(r, param))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countries)
	}
}

// HandleByName serves GET /api/countries/name/{name}.
func (h *CountryHandler) HandleByName() http.HandlerFunc {
	return h.lookup("name", h.countries.ByName)
}

// HandleByRegion serves GET /api/countries/region/{region}.
func (h *CountryHandler) HandleByRegion() http.HandlerFunc {
	return h.lookup("region", h.countries.ByRegion)
}

// HandleByLanguage serves GET /api/countries/language/{language}.
func (h *CountryHandler) HandleByLanguage() http.HandlerFunc {
	return h.lookup("language", h.countries.ByLanguage)
}

// HandleByCurrency serves GET /api/countries/currency/{currency}.
func (h *CountryHandler) HandleByCurrency() http.HandlerFunc {
	return h.lookup("currency", h.countries.ByCurrency)
}

// HandleByDemonym serves GET /api/countries/demonym/{demonym}.
func (h *CountryHandler) HandleByDemonym() http.HandlerFunc {
	return h.lookup("demonym", h.countries.ByDemonym)
}

// HandleByCapital serves GET /api/countries/capital/{capital}.
func (h *CountryHandler) HandleByCapital() http.HandlerFunc {
	return h.lookup("capital", h.countries.ByCapital)
}

// HandleBySubregion serves GET /api/countries/subregion/{subregion}.
func (h *CountryHandler) HandleBySubregion() http.HandlerFunc {
	return h.lookup("subregion", h.countries.BySubregion)
}

// HandleByTranslation serves GET /api/countries/translation/{translation}.
func (h *CountryHandler) HandleByTranslation() http.HandlerFunc {
	return h.lookup("translation", h.countries.ByTranslation)
}
