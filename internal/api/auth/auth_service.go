package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chakulahub/chakula-api/app/observability/metrics"
	"github.com/chakulahub/chakula-api/internal/api"
)

// ErrWrongPassword reports a change-password attempt with a bad current
// password. Distinct from api.ErrUnauthenticated so the handler can answer
// 400 instead of 401.
var ErrWrongPassword = errors.New("current password is incorrect")

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates the credential hasher, the token service and the
// user directory behind the account endpoints.
type AuthService interface {
	// Register creates a new user and returns it with a freshly issued
	// token. Returns api.ErrConflict if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*User, string, error)

	// Login authenticates email+password and returns the user with a fresh
	// token. Unknown email and wrong password both return
	// api.ErrUnauthenticated so callers cannot probe which emails exist.
	Login(ctx context.Context, email, password string) (*User, string, error)

	// GetProfile fetches the user behind an authenticated identity.
	GetProfile(ctx context.Context, userID int64) (*User, error)

	// UpdateProfile overwrites the mutable profile fields.
	UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error)

	// ChangePassword verifies the current password and persists a hash of
	// the new one. Returns ErrWrongPassword on a bad current password.
	// Previously issued tokens stay valid until they expire.
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// RegisterParams carries validated registration input. Password is still
// plaintext here; it is hashed before it reaches the directory and never
// logged.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Language  string
}

type AuthServiceImpl struct {
	logger  *slog.Logger
	repo    UserRepo
	hasher  PasswordHasher
	tokens  TokenService
	metrics *metrics.AppMetrics // nil in tests
}

func NewAuthService(repo UserRepo, hasher PasswordHasher, tokens TokenService, logger *slog.Logger, m *metrics.AppMetrics) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:  logger,
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	l := s.logger.With(slog.String("method", "Register"))
	start := time.Now()

	// The existence check and the insert are not atomic; the unique
	// constraint on users.email closes the race and CreateUser maps the
	// violation to api.ErrConflict.
	_, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", api.ErrConflict)
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, "", fmt.Errorf("checking existing email: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		Language:     params.Language,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RegisterRequestsTotal.Add(ctx, 1)
		s.metrics.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	l.InfoContext(ctx, "User registered", slog.Int64("userID", user.ID))
	return user, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*User, string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	if s.metrics != nil {
		s.metrics.LoginRequestsTotal.Add(ctx, 1)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.LoginFailuresTotal.Add(ctx, 1)
			}
			// Same error as a wrong password: do not reveal whether the
			// email is registered.
			return nil, "", fmt.Errorf("unknown email: %w", api.ErrUnauthenticated)
		}
		return nil, "", fmt.Errorf("fetching user for login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		if s.metrics != nil {
			s.metrics.LoginFailuresTotal.Add(ctx, 1)
		}
		l.WarnContext(ctx, "Password mismatch on login", slog.Int64("userID", user.ID))
		return nil, "", fmt.Errorf("password mismatch: %w", api.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.Int64("userID", user.ID))
	return user, token, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, params)
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.Int64("userID", userID))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		l.WarnContext(ctx, "Wrong current password on change attempt")
		return ErrWrongPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, newHash); err != nil {
		return err
	}

	// Tokens issued before the change stay valid until natural expiry;
	// there is no revocation state to update.
	l.InfoContext(ctx, "Password changed")
	return nil
}
