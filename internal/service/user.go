package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/model"
	"github.com/sakif/country-explorer/internal/repository"
)

// UserService manages profile changes for an authenticated account.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{users: users, passwords: passwords, logger: logger}
}

// ProfileUpdate carries the fields UpdateProfile may change. Empty
// fields are left untouched.
type ProfileUpdate struct {
	Username string
	Email    string
}

// UpdateProfile changes the account's username and/or email.
//
// Availability is pre-checked against other accounts so the caller gets
// the specific "already in use" message; the database UNIQUE constraint
// still backstops a race.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.Username = strings.TrimSpace(update.Username)
	update.Email = strings.TrimSpace(update.Email)

	if update.Username != "" && update.Username != user.Username {
		if taken, err := s.takenByOther(ctx, update.Username, userID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperror.Conflict("Username already in use")
		}
		user.Username = update.Username
	}

	if update.Email != "" && update.Email != user.Email {
		if taken, err := s.takenByOther(ctx, update.Email, userID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperror.Conflict("Email already in use")
		}
		user.Email = update.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return user, nil
}

// ResetPassword verifies the current password before storing a new one.
func (s *UserService) ResetPassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperror.ValidationFailed("", "Current and new passwords are required")
	}
	if len(newPassword) < 6 {
		return apperror.ValidationFailed("newPassword", "Password must be at least 6 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.Verify(user.PasswordHash, currentPassword); err != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/user: hashing new password: %w", err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", slog.String("userID", userID))
	return nil
}

// takenByOther reports whether login (a username or email) belongs to
// an account other than userID.
func (s *UserService) takenByOther(ctx context.Context, login, userID string) (bool, error) {
	other, err := s.users.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return other.ID != userID, nil
}
