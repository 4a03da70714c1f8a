package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresEnrollmentRepository implements EnrollmentRepository using PostgreSQL
type PostgresEnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEnrollmentRepository creates a new PostgresEnrollmentRepository
func NewPostgresEnrollmentRepository(pool *pgxpool.Pool) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{pool: pool}
}

// ListByEmail retrieves enrolled classes for a student
func (r *PostgresEnrollmentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.EnrolledClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.enrollment.list_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	query := `
		SELECT id, email, class_id, class_name, price, image, instructor_name, created_at
		FROM enrolled_classes
		WHERE email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list enrolled classes: %w", err)
	}
	defer rows.Close()

	var enrollments []*domain.EnrolledClass
	for rows.Next() {
		enrollment := &domain.EnrolledClass{}
		var image, instructorName *string

		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.Email,
			&enrollment.ClassID,
			&enrollment.ClassName,
			&enrollment.Price,
			&image,
			&instructorName,
			&enrollment.CreatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan enrolled class: %w", err)
		}

		if image != nil {
			enrollment.Image = *image
		}
		if instructorName != nil {
			enrollment.InstructorName = *instructorName
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating enrolled classes: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(enrollments)))
	span.SetStatus(codes.Ok, "")
	return enrollments, nil
}

// Ensure PostgresEnrollmentRepository implements EnrollmentRepository
var _ EnrollmentRepository = (*PostgresEnrollmentRepository)(nil)
