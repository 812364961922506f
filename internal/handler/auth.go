package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/service"
)

// AuthHandler serves registration, login, logout, the current-identity
// endpoint, and the optional GitHub OAuth flow.
type AuthHandler struct {
	auths  *service.AuthService
	github *auth.GitHubProvider // nil when GitHub sign-in is not configured
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the OAuth
// routes then answer 404.
func NewAuthHandler(auths *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auths: auths, github: github, logger: logger}
}

// userProfile is the public projection of a user record.
type userProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func profileOf(user *model.User) userProfile {
	return userProfile{ID: user.ID, Username: user.Username, Email: user.Email}
}

// authResponse is the register/login payload: the token for
// Authorization headers plus the signed-in profile.
type authResponse struct {
	Token string      `json:"token"`
	User  userProfile `json:"user"`
}

// setTokenCookie stores the JWT in an HttpOnly cookie so browser
// clients that don't manage an Authorization header still authenticate.
func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleRegister creates an account.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Register(r.Context(), service.RegisterInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{
		Token: result.Token,
		User:  profileOf(result.User),
	})
}

// HandleLogin signs in with a username or email plus password.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	// Clients send either field; both resolve the same way.
	login := body.Username
	if login == "" {
		login = body.Email
	}

	result, err := h.auths.Login(r.Context(), login, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		User:  profileOf(result.User),
	})
}

// HandleLogout clears the token cookie. The JWT itself stays valid
// until expiry — logout is a client-side affair for a stateless token.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth route, but don't panic if miswired.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileOf(user))
}

// HandleGitHubLogin redirects the browser to GitHub's authorization
// page. A random state value stored in a short-lived HttpOnly cookie
// ties the later callback to this request (CSRF protection).
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		http.NotFound(w, r)
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify the state,
// exchange the code for a GitHub profile, sign the user in, set the
// token cookie, and send the browser home.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.auths.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: sign-in failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	setTokenCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
