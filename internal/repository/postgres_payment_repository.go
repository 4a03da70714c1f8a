package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

// ListByEmail retrieves payments for a student, newest first
func (r *PostgresPaymentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.payment.list_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	query := `
		SELECT id, email, class_id, selected_class_id, transaction_id, price, paid_at, created_at
		FROM payments
		WHERE email = $1
		ORDER BY paid_at DESC
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPaymentRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(payments)))
	span.SetStatus(codes.Ok, "")
	return payments, nil
}

func scanPaymentRow(row pgx.Row) (*domain.Payment, error) {
	payment := &domain.Payment{}
	var transactionID *string

	err := row.Scan(
		&payment.ID,
		&payment.Email,
		&payment.ClassID,
		&payment.SelectedClassID,
		&transactionID,
		&payment.Price,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transactionID != nil {
		payment.TransactionID = *transactionID
	}
	return payment, nil
}

// Ensure PostgresPaymentRepository implements PaymentRepository
var _ PaymentRepository = (*PostgresPaymentRepository)(nil)
