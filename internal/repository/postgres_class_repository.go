package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const classColumns = `
	id, name, image, instructor_name, instructor_email, status,
	available_seats, total_enrolled, price, feedback, created_at, updated_at
`

// PostgresClassRepository implements ClassRepository using PostgreSQL with pgxpool
type PostgresClassRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresClassRepository creates a new PostgresClassRepository
func NewPostgresClassRepository(pool *pgxpool.Pool) *PostgresClassRepository {
	return &PostgresClassRepository{pool: pool}
}

// Create inserts a new class record
func (r *PostgresClassRepository) Create(ctx context.Context, class *domain.Class) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("class_id", class.ID),
		attribute.String("instructor_email", class.InstructorEmail),
	)

	query := `
		INSERT INTO classes (
			id, name, image, instructor_name, instructor_email, status,
			available_seats, total_enrolled, price, feedback, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		class.ID,
		class.Name,
		class.Image,
		class.InstructorName,
		class.InstructorEmail,
		class.Status.String(),
		class.AvailableSeats,
		class.TotalEnrolled,
		class.Price,
		class.Feedback,
		class.CreatedAt,
		class.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create class: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a class by id
func (r *PostgresClassRepository) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("class_id", id))

	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	class, err := scanClassRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrClassNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return class, nil
}

// List retrieves all classes regardless of status
func (r *PostgresClassRepository) List(ctx context.Context) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.list")
	defer span.End()

	query := `SELECT ` + classColumns + ` FROM classes ORDER BY created_at DESC`
	return r.queryClasses(ctx, span, query)
}

// ListByStatus retrieves classes with the given status
func (r *PostgresClassRepository) ListByStatus(ctx context.Context, status domain.ClassStatus) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.list_by_status")
	defer span.End()

	span.SetAttributes(attribute.String("status", status.String()))

	query := `SELECT ` + classColumns + ` FROM classes WHERE status = $1 ORDER BY created_at DESC`
	return r.queryClasses(ctx, span, query, status.String())
}

// ListPopular retrieves the most-enrolled approved classes
func (r *PostgresClassRepository) ListPopular(ctx context.Context, limit int) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.list_popular")
	defer span.End()

	span.SetAttributes(attribute.Int("limit", limit))

	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE status = $1
		ORDER BY total_enrolled DESC
		LIMIT $2
	`
	return r.queryClasses(ctx, span, query, domain.ClassStatusApproved.String(), limit)
}

// ListByInstructor retrieves classes owned by an instructor email
func (r *PostgresClassRepository) ListByInstructor(ctx context.Context, email string) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.list_by_instructor")
	defer span.End()

	span.SetAttributes(attribute.String("instructor_email", email))

	query := `SELECT ` + classColumns + ` FROM classes WHERE instructor_email = $1 ORDER BY created_at DESC`
	return r.queryClasses(ctx, span, query, email)
}

// UpdateStatus sets the approval status of a class
func (r *PostgresClassRepository) UpdateStatus(ctx context.Context, id string, status domain.ClassStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("class_id", id),
		attribute.String("status", status.String()),
	)

	query := `UPDATE classes SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update class status: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrClassNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// UpdateFeedback sets the admin feedback on a class
func (r *PostgresClassRepository) UpdateFeedback(ctx context.Context, id, feedback string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.class.update_feedback")
	defer span.End()

	span.SetAttributes(attribute.String("class_id", id))

	query := `UPDATE classes SET feedback = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, feedback)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update class feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrClassNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *PostgresClassRepository) queryClasses(ctx context.Context, span trace.Span, query string, args ...any) ([]*domain.Class, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []*domain.Class
	for rows.Next() {
		class, err := scanClassRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating classes: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(classes)))
	span.SetStatus(codes.Ok, "")
	return classes, nil
}

func scanClassRow(row pgx.Row) (*domain.Class, error) {
	class := &domain.Class{}
	var status string
	var image, instructorName, feedback *string

	err := row.Scan(
		&class.ID,
		&class.Name,
		&image,
		&instructorName,
		&class.InstructorEmail,
		&status,
		&class.AvailableSeats,
		&class.TotalEnrolled,
		&class.Price,
		&feedback,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	class.Status = domain.ClassStatus(status)
	if image != nil {
		class.Image = *image
	}
	if instructorName != nil {
		class.InstructorName = *instructorName
	}
	if feedback != nil {
		class.Feedback = *feedback
	}
	return class, nil
}

// Ensure PostgresClassRepository implements ClassRepository
var _ ClassRepository = (*PostgresClassRepository)(nil)
