package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresUserRepository implements UserRepository using PostgreSQL with pgxpool
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create inserts a new user record
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.create")
	defer span.End()

	span.SetAttributes(attribute.String("email", user.Email))

	query := `
		INSERT INTO users (id, email, name, photo, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Photo,
		user.Role.String(),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "duplicate email")
			return domain.ErrUserExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByEmail retrieves a user by email. Returns nil without error when the
// user does not exist, mirroring the role-lookup semantics the guards need.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.get_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	query := `
		SELECT id, email, name, photo, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &domain.User{}
	var role string

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Photo,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.Role = domain.Role(role)
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// List retrieves all users
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.list")
	defer span.End()

	query := `
		SELECT id, email, name, photo, role, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// ListByRole retrieves all users with the given role
func (r *PostgresUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.list_by_role")
	defer span.End()

	span.SetAttributes(attribute.String("role", role.String()))

	query := `
		SELECT id, email, name, photo, role, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, role.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// UpdateRole sets the role of a user by id
func (r *PostgresUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.update_role")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", id),
		attribute.String("role", role.String()),
	)

	query := `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, role.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update user role: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanUsers(rows pgx.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		var role string
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Photo,
			&role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = domain.Role(role)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Ensure PostgresUserRepository implements UserRepository
var _ UserRepository = (*PostgresUserRepository)(nil)
