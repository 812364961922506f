// Package service holds the business logic, between the HTTP handlers
// and the repositories/gateway:
//
//	handler (HTTP) → service (rules) → repository (DB)
//	                                 ↘ restcountries (external API)
//
// Services never touch HTTP types; handlers never touch SQL or the
// upstream provider.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

// AuthService handles registration, login, and token concerns.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued JWT so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a password account and signs the new user in.
//
// Validation happens here, not in the handler: required fields and the
// minimum password length. Uniqueness is enforced by the repository —
// the database constraint is the source of truth, so a raced duplicate
// registration still comes back as a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return nil, apperror.ValidationFailed("username", "Username is required")
	case in.Email == "":
		return nil, apperror.ValidationFailed("email", "Email is required")
	case in.Password == "":
		return nil, apperror.ValidationFailed("password", "Password is required")
	case len(in.Password) < 6:
		return nil, apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueToken(user)
}

// Login authenticates by username or email plus password.
//
// A missing account and a wrong password produce the same
// "Invalid credentials" error, so a caller cannot probe which
// usernames exist.
func (s *AuthService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	if login == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Username and password are required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// LoginOrRegisterGitHub completes the GitHub OAuth callback.
//
// GitHub's ID is stable and unique, so the repository upserts on it:
// first sign-in creates the account, later sign-ins resolve to it. A
// username collision with an existing password account is handled by
// the repository (the GitHub ID is appended as a suffix).
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	email := ghUser.Email
	if email == "" {
		// GitHub hides the email for private-email users; synthesize the
		// noreply form so the NOT NULL + UNIQUE email column stays honest.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", ghUser.ID, ghUser.Login)
	}

	user := &model.User{
		Username: ghUser.Login,
		Email:    email,
		GitHubID: ghUser.ID,
	}
	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueToken(user)
}

// GetUserByID returns the user for the given internal ID. Used by the
// /api/auth/me handler after the middleware extracts the userID from
// the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}

// ValidateToken validates a JWT string and returns the userID it
// encodes. Thin delegation so callers only import the service package.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
