package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
type GitHubUser struct {
	ID    int64  `json:"id"`    // GitHub's numeric user ID — stable, never changes
	Login string `json:"login"` // GitHub username
	Email string `json:"email"` // Primary email (empty if hidden in GitHub settings)
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
// 1. We redirect the user to GitHub's authorization page with our ClientID
// 2. The user approves; GitHub redirects back to CallbackURL with a "code"
// 3. We exchange the code for an access token (server-to-server, using the
//    ClientSecret — the token never touches the browser)
// 4. We call GitHub's /user API with the token to learn who signed in
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
//
// ClientID and ClientSecret come from registering an OAuth App at
// github.com/settings/developers; callbackURL must match the app's
// configured "Authorization callback URL" exactly.
//
// Scopes: "read:user" for the public profile, "user:email" for the address.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random string stored in a short-lived cookie before the
// redirect; the callback handler verifies GitHub echoed it back unchanged.
// That proves the callback belongs to a flow this server started (CSRF
// protection).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// GitHub user profile. The result is what the auth service upserts into the
// local user store before issuing our own JWT.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, nil
}
