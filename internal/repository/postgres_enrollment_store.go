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

// PostgresEnrollmentStore executes the enrollment commit inside a single
// database transaction. The four writes succeed or fail together, so a
// crash between steps can never leave a paid student without an enrollment
// or a freed seat without a payment.
type PostgresEnrollmentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEnrollmentStore creates a new PostgresEnrollmentStore
func NewPostgresEnrollmentStore(pool *pgxpool.Pool) *PostgresEnrollmentStore {
	return &PostgresEnrollmentStore{pool: pool}
}

// Commit runs the four-step enrollment unit of work:
//
//  1. insert the payment ledger entry
//  2. delete the pending selection
//  3. insert the enrollment record
//  4. decrement available seats and increment total enrolled, guarded so
//     the seat count can never go below zero
//
// The payments table carries a unique index on selected_class_id, which
// makes the selection id the commit's idempotency key: a replay of an
// already-committed selection returns the original result with
// AlreadyProcessed set instead of charging twice.
func (s *PostgresEnrollmentStore) Commit(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.enrollment_store.commit")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", commit.Email),
		attribute.String("class_id", commit.ClassID),
		attribute.String("selected_class_id", commit.SelectedClassID),
	)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to begin enrollment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Replay detection before any write. A prior commit for this selection
	// means the selection row is already gone and the seat already moved.
	if result, err := s.findExistingCommit(ctx, tx, commit.SelectedClassID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	} else if result != nil {
		span.SetAttributes(attribute.Bool("already_processed", true))
		span.SetStatus(codes.Ok, "replay")
		return result, nil
	}

	if err := s.insertPayment(ctx, tx, commit); err != nil {
		// A concurrent commit for the same selection can still win the race
		// between our replay check and this insert. The unique index turns
		// that into a duplicate-key error, which we resolve as a replay.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetAttributes(attribute.Bool("already_processed", true))
			span.SetStatus(codes.Ok, "replay")
			return s.replayResult(ctx, commit.SelectedClassID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	deleted, err := s.deleteSelection(ctx, tx, commit.SelectedClassID)
	if err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.insertEnrollment(ctx, tx, commit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.claimSeat(ctx, tx, commit.ClassID)
	if err != nil {
		if !domain.IsNotFoundError(err) && !domain.IsConflictError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit enrollment transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return &domain.EnrollmentCommitResult{
		PaymentID:         commit.PaymentID,
		EnrollmentID:      commit.EnrollmentID,
		SelectionsDeleted: deleted,
		ClassesUpdated:    updated,
	}, nil
}

func (s *PostgresEnrollmentStore) findExistingCommit(ctx context.Context, tx pgx.Tx, selectedClassID string) (*domain.EnrollmentCommitResult, error) {
	query := `
		SELECT p.id, COALESCE(e.id, '')
		FROM payments p
		LEFT JOIN enrolled_classes e ON e.payment_id = p.id
		WHERE p.selected_class_id = $1
	`

	var paymentID, enrollmentID string
	err := tx.QueryRow(ctx, query, selectedClassID).Scan(&paymentID, &enrollmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check for prior commit: %w", err)
	}

	return &domain.EnrollmentCommitResult{
		PaymentID:        paymentID,
		EnrollmentID:     enrollmentID,
		AlreadyProcessed: true,
	}, nil
}

// replayResult reads the prior commit outside the aborted transaction after
// a duplicate-key race.
func (s *PostgresEnrollmentStore) replayResult(ctx context.Context, selectedClassID string) (*domain.EnrollmentCommitResult, error) {
	query := `
		SELECT p.id, COALESCE(e.id, '')
		FROM payments p
		LEFT JOIN enrolled_classes e ON e.payment_id = p.id
		WHERE p.selected_class_id = $1
	`

	var paymentID, enrollmentID string
	if err := s.pool.QueryRow(ctx, query, selectedClassID).Scan(&paymentID, &enrollmentID); err != nil {
		return nil, fmt.Errorf("failed to resolve replayed commit: %w", err)
	}

	return &domain.EnrollmentCommitResult{
		PaymentID:        paymentID,
		EnrollmentID:     enrollmentID,
		AlreadyProcessed: true,
	}, nil
}

func (s *PostgresEnrollmentStore) insertPayment(ctx context.Context, tx pgx.Tx, commit *domain.EnrollmentCommit) error {
	query := `
		INSERT INTO payments (id, email, class_id, selected_class_id, transaction_id, price, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`

	_, err := tx.Exec(ctx, query,
		commit.PaymentID,
		commit.Email,
		commit.ClassID,
		commit.SelectedClassID,
		commit.TransactionID,
		commit.Price,
		commit.PaidAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return err
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *PostgresEnrollmentStore) deleteSelection(ctx context.Context, tx pgx.Tx, selectedClassID string) (int64, error) {
	result, err := tx.Exec(ctx, `DELETE FROM selected_classes WHERE id = $1`, selectedClassID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete selection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, domain.ErrSelectionNotFound
	}
	return result.RowsAffected(), nil
}

func (s *PostgresEnrollmentStore) insertEnrollment(ctx context.Context, tx pgx.Tx, commit *domain.EnrollmentCommit) error {
	query := `
		INSERT INTO enrolled_classes (id, email, class_id, class_name, price, image, instructor_name, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`

	_, err := tx.Exec(ctx, query,
		commit.EnrollmentID,
		commit.Email,
		commit.ClassID,
		commit.ClassName,
		commit.Price,
		commit.Image,
		commit.InstructorName,
		commit.PaymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// claimSeat applies the compound counter update with a seat guard. Both
// counters move in one statement, so they can never drift apart, and the
// available_seats predicate makes oversell impossible under concurrency.
func (s *PostgresEnrollmentStore) claimSeat(ctx context.Context, tx pgx.Tx, classID string) (int64, error) {
	query := `
		UPDATE classes
		SET available_seats = available_seats - 1,
			total_enrolled = total_enrolled + 1,
			updated_at = now()
		WHERE id = $1 AND available_seats >= 1
	`

	result, err := tx.Exec(ctx, query, classID)
	if err != nil {
		return 0, fmt.Errorf("failed to update class seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing class from a sold-out one.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, classID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check class existence: %w", err)
		}
		if !exists {
			return 0, domain.ErrClassNotFound
		}
		return 0, domain.ErrNoSeatsAvailable
	}

	return result.RowsAffected(), nil
}

// Ensure PostgresEnrollmentStore implements EnrollmentStore
var _ EnrollmentStore = (*PostgresEnrollmentStore)(nil)
