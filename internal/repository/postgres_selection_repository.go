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
)

// PostgresSelectionRepository implements SelectionRepository using PostgreSQL
type PostgresSelectionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSelectionRepository creates a new PostgresSelectionRepository
func NewPostgresSelectionRepository(pool *pgxpool.Pool) *PostgresSelectionRepository {
	return &PostgresSelectionRepository{pool: pool}
}

// Create inserts a new selection
func (r *PostgresSelectionRepository) Create(ctx context.Context, selection *domain.SelectedClass) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.selection.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("selection_id", selection.ID),
		attribute.String("email", selection.Email),
		attribute.String("class_id", selection.ClassID),
	)

	query := `
		INSERT INTO selected_classes (id, email, class_id, class_name, image, instructor_name, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		selection.ID,
		selection.Email,
		selection.ClassID,
		selection.ClassName,
		selection.Image,
		selection.InstructorName,
		selection.Price,
		selection.CreatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create selection: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a selection by id
func (r *PostgresSelectionRepository) GetByID(ctx context.Context, id string) (*domain.SelectedClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.selection.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("selection_id", id))

	query := `
		SELECT id, email, class_id, class_name, image, instructor_name, price, created_at
		FROM selected_classes
		WHERE id = $1
	`

	selection, err := scanSelectionRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrSelectionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return selection, nil
}

// ListByEmail retrieves all selections for a student
func (r *PostgresSelectionRepository) ListByEmail(ctx context.Context, email string) ([]*domain.SelectedClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.selection.list_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	query := `
		SELECT id, email, class_id, class_name, image, instructor_name, price, created_at
		FROM selected_classes
		WHERE email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var selections []*domain.SelectedClass
	for rows.Next() {
		selection, err := scanSelectionRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, selection)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating selections: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(selections)))
	span.SetStatus(codes.Ok, "")
	return selections, nil
}

// Delete removes a selection by id
func (r *PostgresSelectionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.selection.delete")
	defer span.End()

	span.SetAttributes(attribute.String("selection_id", id))

	result, err := r.pool.Exec(ctx, `DELETE FROM selected_classes WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete selection: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrSelectionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanSelectionRow(row pgx.Row) (*domain.SelectedClass, error) {
	selection := &domain.SelectedClass{}
	var className, image, instructorName *string

	err := row.Scan(
		&selection.ID,
		&selection.Email,
		&selection.ClassID,
		&className,
		&image,
		&instructorName,
		&selection.Price,
		&selection.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if className != nil {
		selection.ClassName = *className
	}
	if image != nil {
		selection.Image = *image
	}
	if instructorName != nil {
		selection.InstructorName = *instructorName
	}
	return selection, nil
}

// Ensure PostgresSelectionRepository implements SelectionRepository
var _ SelectionRepository = (*PostgresSelectionRepository)(nil)
