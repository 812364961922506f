package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/country-explorer/internal/apperror"
	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of
// repository.UserRepository. Using a fake (not a mock framework) keeps
// tests dependency-free and easy to read. It mirrors the real SQLite
// behavior where the services depend on it: unique usernames/emails
// with the same conflict messages, copies in and out so a mutation
// only persists through Update.
type fakeUserRepo struct {
	byID   map[string]*model.User
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Username == user.Username {
			return apperror.Conflict("Username already exists")
		}
		if existing.Email == user.Email {
			return apperror.Conflict("Email already exists")
		}
	}
	user.ID = fmt.Sprintf("user-fake-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	stored, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsernameOrEmail(ctx context.Context, login string) (*model.User, error) {
	for _, stored := range f.byID {
		if stored.Username == login || stored.Email == login {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[user.ID]; !ok {
		return apperror.NotFound("User not found")
	}
	for id, existing := range f.byID {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return apperror.Conflict("Username already exists")
		}
		if existing.Email == user.Email {
			return apperror.Conflict("Email already exists")
		}
	}
	user.UpdatedAt = time.Now()
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	for _, stored := range f.byID {
		if stored.GitHubID != 0 && stored.GitHubID == user.GitHubID {
			*user = *stored
			return nil
		}
	}
	err := f.Create(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		user.Username = fmt.Sprintf("%s-%d", user.Username, user.GitHubID)
		err = f.Create(ctx, user)
	}
	return err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService returns an AuthService wired with fake
// dependencies. Bcrypt cost 4 keeps the hashing fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceForTest(4)

	return NewAuthService(repo, ts, ps, testLogger())
}

func validRegistration() RegisterInput {
	return RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_CreatesUserAndIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.ID == "" {
		t.Error("User.ID should be set after registration")
	}
	if result.User.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}
	if result.Token == "" {
		t.Fatal("Register() returned empty token")
	}

	// The issued token must round-trip through validation
	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %q, want %q", userID, result.User.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		message string
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }, "Username is required"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "Email is required"},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "Password is required"},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	duplicate := validRegistration()
	duplicate.Email = "other@example.com"
	_, err := svc.Register(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
	if err.Error() != "Username already exists" {
		t.Errorf("message = %q, want %q", err.Error(), "Username already exists")
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	registered, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, login := range []string{"alice", "alice@example.com"} {
		result, err := svc.Login(context.Background(), login, "secret1")
		if err != nil {
			t.Fatalf("Login(%q) error = %v", login, err)
		}
		if result.User.ID != registered.User.ID {
			t.Errorf("Login(%q) resolved to %q, want %q", login, result.User.ID, registered.User.ID)
		}
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("message = %q, want %q", err.Error(), "Invalid credentials")
	}
}

func TestLogin_UnknownUserSameMessage(t *testing.T) {
	// Unknown account and wrong password must be indistinguishable.
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("message = %q, want %q", err.Error(), "Invalid credentials")
	}
}

// =========================================================================
// GitHub sign-in TESTS
// =========================================================================

func TestLoginOrRegisterGitHub_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID: 42, Login: "octocat", Email: "octo@github.com",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if result.User.ID == "" || result.Token == "" {
		t.Fatalf("incomplete result: %+v", result)
	}
	if result.User.Username != "octocat" {
		t.Errorf("Username = %q, want octocat", result.User.Username)
	}
}

func TestLoginOrRegisterGitHub_SecondSignInSameAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	ghUser := &auth.GitHubUser{ID: 42, Login: "octocat", Email: "octo@github.com"}
	first, err := svc.LoginOrRegisterGitHub(context.Background(), ghUser)
	if err != nil {
		t.Fatalf("first sign-in error = %v", err)
	}
	second, err := svc.LoginOrRegisterGitHub(context.Background(), ghUser)
	if err != nil {
		t.Fatalf("second sign-in error = %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("second sign-in ID = %q, want %q", second.User.ID, first.User.ID)
	}
}

func TestLoginOrRegisterGitHub_MissingEmailSynthesized(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID: 7, Login: "private-person",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if result.User.Email == "" {
		t.Error("email should be synthesized for private-email profiles")
	}
}

func TestLoginOrRegisterGitHub_NilUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.LoginOrRegisterGitHub(context.Background(), nil); err == nil {
		t.Fatal("LoginOrRegisterGitHub(nil) should error")
	}
}

// =========================================================================
// GetUserByID / ValidateToken TESTS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	registered, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.GetUserByID(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want alice", user.Username)
	}

	if _, err := svc.GetUserByID(context.Background(), ""); err == nil {
		t.Error("GetUserByID(\"\") should error")
	}
	if _, err := svc.GetUserByID(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.ValidateToken("this.is.garbage"); err == nil {
		t.Fatal("ValidateToken() should reject garbage")
	}
}
