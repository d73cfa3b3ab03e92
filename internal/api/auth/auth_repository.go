package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chakulahub/chakula-api/internal/api"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo is the narrow query contract the auth core consumes from the user
// directory. The directory owns the rows; the core only reads and updates
// through this interface.
type UserRepo interface {
	// GetUserByEmail retrieves a user by the normalized login email.
	// Returns api.ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves a user by id.
	// Returns api.ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, userID int64) (*User, error)

	// CreateUser inserts a new user row. Returns api.ErrConflict if the
	// email is already taken (unique constraint).
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)

	// UpdateProfile overwrites the mutable profile fields.
	// Returns api.ErrNotFound if the user vanished.
	UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error)

	// UpdatePassword persists a new password hash.
	// Returns api.ErrNotFound if the user vanished.
	UpdatePassword(ctx context.Context, userID int64, newPasswordHash string) error
}

// CreateUserParams carries the validated fields for a new user row.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Language     string
}

// UpdateProfileParams carries the mutable profile fields.
type UpdateProfileParams struct {
	FirstName string
	LastName  string
	Phone     *string
	Language  string
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool api.DBPool
}

func NewPostgresUserRepo(pgpool api.DBPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = "id, email, password_hash, first_name, last_name, phone, language, created_at, updated_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Language, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetUserByEmail"))

	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("no user with email: %w", api.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to query user by email", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetUserByID"), slog.Int64("userID", userID))

	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("no user with id %d: %w", userID, api.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to query user by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"))

	query := fmt.Sprintf(`
        INSERT INTO users (email, password_hash, first_name, last_name, phone, language)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s`, userColumns)

	user, err := scanUser(r.pgpool.QueryRow(ctx, query,
		params.Email, params.PasswordHash, params.FirstName, params.LastName,
		params.Phone, params.Language))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			l.WarnContext(ctx, "Attempted to register duplicate email")
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate email")
			return nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert new user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.Int64("userID", user.ID))
	span.SetAttributes(attribute.Int64("db.user.id", user.ID))
	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.Int64("userID", userID))

	query := fmt.Sprintf(`
        UPDATE users
        SET first_name = $1, last_name = $2, phone = $3, language = $4, updated_at = now()
        WHERE id = $5
        RETURNING %s`, userColumns)

	user, err := scanUser(r.pgpool.QueryRow(ctx, query,
		params.FirstName, params.LastName, params.Phone, params.Language, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("no user with id %d: %w", userID, api.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return user, nil
}

func (r *PostgresUserRepo) UpdatePassword(ctx context.Context, userID int64, newPasswordHash string) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdatePassword", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdatePassword"), slog.Int64("userID", userID))

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2",
		newPasswordHash, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("no user with id %d: %w", userID, api.ErrNotFound)
	}

	l.InfoContext(ctx, "Password updated")
	span.SetStatus(codes.Ok, "Password updated")
	return nil
}
