package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers every route on r: the browser-facing GitHub flow at
// the root and the JSON API under /api. Registration, login, and logout
// are open; requireAuth guards everything else.
//
// The server and the HTTP tests both mount through this function, so a
// request in a test travels the same route table production traffic does.
func Routes(
	r chi.Router,
	auths *AuthHandler,
	countries *CountryHandler,
	favorites *FavoriteHandler,
	users *UserHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	// Browser-facing OAuth flow lives outside /api
	r.Get("/auth/github/login", auths.HandleGitHubLogin)
	r.Get("/auth/github/callback", auths.HandleGitHubCallback)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auths.HandleRegister)
			r.Post("/login", auths.HandleLogin)
			r.Post("/logout", auths.HandleLogout)
			r.With(requireAuth).Get("/me", auths.HandleMe)
		})

		// Everything below needs a valid token
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/countries", func(r chi.Router) {
				r.Get("/all", countries.HandleAll)
				r.Get("/name/{name}", countries.HandleByName())
				r.Get("/region/{region}", countries.HandleByRegion())
				r.Get("/language/{language}", countries.HandleByLanguage())
				r.Get("/code/{code}", countries.HandleByCode)
				r.Get("/codes", countries.HandleByCodes)
				r.Get("/currency/{currency}", countries.HandleByCurrency())
				r.Get("/demonym/{demonym}", countries.HandleByDemonym())
				r.Get("/capital/{capital}", countries.HandleByCapital())
				r.Get("/subregion/{subregion}", countries.HandleBySubregion())
				r.Get("/translation/{translation}", countries.HandleByTranslation())
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favorites.HandleList)
				r.Post("/", favorites.HandleAdd)
				r.Delete("/{code}", favorites.HandleRemove)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/recently-viewed", users.HandleRecentlyViewed)
				r.Put("/profile", users.HandleUpdateProfile)
				r.Put("/reset-password", users.HandleResetPassword)
				r.Post("/note", users.HandleUpsertNote)
				r.Get("/notes", users.HandleListNotes)
			})
		})
	})
}
