package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/gateway"
	"github.com/melodymaster/enrollment-api/internal/repository"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// EnrollmentService orchestrates payment collection and the enrollment
// commit
type EnrollmentService interface {
	// CreatePaymentIntent opens a charge for the given price and returns
	// the client secret the frontend confirms the card against
	CreatePaymentIntent(ctx context.Context, email string, price float64) (string, error)

	// CommitEnrollment runs the four-step commit after the client reports
	// a completed charge. Safe to retry: a replay of a committed selection
	// returns the original result with AlreadyProcessed set.
	CommitEnrollment(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error)

	// ListPayments retrieves a student's payment history, newest first
	ListPayments(ctx context.Context, email string) ([]*domain.Payment, error)

	// ListEnrolledClasses retrieves a student's enrolled classes
	ListEnrolledClasses(ctx context.Context, email string) ([]*domain.EnrolledClass, error)
}

type enrollmentService struct {
	store       repository.EnrollmentStore
	payments    repository.PaymentRepository
	enrollments repository.EnrollmentRepository
	gateway     gateway.PaymentGateway
	publisher   EventPublisher
	currency    string
	logger      *zap.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	store repository.EnrollmentStore,
	payments repository.PaymentRepository,
	enrollments repository.EnrollmentRepository,
	gw gateway.PaymentGateway,
	publisher EventPublisher,
	currency string,
	logger *zap.Logger,
) EnrollmentService {
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	if currency == "" {
		currency = "usd"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &enrollmentService{
		store:       store,
		payments:    payments,
		enrollments: enrollments,
		gateway:     gw,
		publisher:   publisher,
		currency:    currency,
		logger:      logger,
	}
}

// CreatePaymentIntent opens a card charge with the processor
func (s *enrollmentService) CreatePaymentIntent(ctx context.Context, email string, price float64) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.create_payment_intent")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.Float64("price", price),
	)

	if price <= 0 {
		span.SetStatus(codes.Error, "invalid price")
		return "", domain.ErrInvalidPrice
	}

	resp, err := s.gateway.CreatePaymentIntent(ctx, &gateway.PaymentIntentRequest{
		Amount:   price,
		Currency: s.currency,
		Email:    email,
	})
	if err != nil {
		s.logger.Error("payment intent creation failed",
			zap.String("email", email),
			zap.Float64("price", price),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", domain.ErrChargeUnavailable
	}

	span.SetStatus(codes.Ok, "")
	return resp.ClientSecret, nil
}

// CommitEnrollment assigns record ids and hands the unit of work to the
// transactional store, then publishes the completion event best-effort
func (s *enrollmentService) CommitEnrollment(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.commit")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", commit.Email),
		attribute.String("class_id", commit.ClassID),
		attribute.String("selected_class_id", commit.SelectedClassID),
	)

	if commit.Email == "" {
		span.SetStatus(codes.Error, "missing email")
		return nil, domain.ErrInvalidEmail
	}
	if commit.SelectedClassID == "" {
		span.SetStatus(codes.Error, "missing selection id")
		return nil, domain.ErrInvalidSelectionID
	}
	if commit.ClassID == "" {
		span.SetStatus(codes.Error, "missing class id")
		return nil, domain.ErrInvalidClassID
	}

	if commit.PaymentID == "" {
		commit.PaymentID = uuid.New().String()
	}
	if commit.EnrollmentID == "" {
		commit.EnrollmentID = uuid.New().String()
	}
	if commit.PaidAt.IsZero() {
		commit.PaidAt = time.Now()
	}

	result, err := s.store.Commit(ctx, commit)
	if err != nil {
		if !domain.IsNotFoundError(err) && !domain.IsConflictError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if result.AlreadyProcessed {
		s.logger.Info("enrollment commit replayed",
			zap.String("selected_class_id", commit.SelectedClassID),
			zap.String("payment_id", result.PaymentID),
		)
		span.SetAttributes(attribute.Bool("already_processed", true))
		span.SetStatus(codes.Ok, "replay")
		return result, nil
	}

	s.logger.Info("enrollment committed",
		zap.String("payment_id", result.PaymentID),
		zap.String("enrollment_id", result.EnrollmentID),
		zap.String("email", commit.Email),
		zap.String("class_id", commit.ClassID),
	)

	// Publishing failures never undo a durable commit.
	event := &domain.EnrollmentEvent{
		EventID:    uuid.New().String(),
		EventType:  domain.EnrollmentEventCompleted,
		Email:      commit.Email,
		ClassID:    commit.ClassID,
		PaymentID:  result.PaymentID,
		Price:      commit.Price,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishEnrollmentCompleted(ctx, event); err != nil {
		s.logger.Warn("enrollment event publish failed",
			zap.String("payment_id", result.PaymentID),
			zap.Error(err),
		)
	}

	span.SetStatus(codes.Ok, "")
	return result, nil
}

// ListPayments retrieves a student's payment ledger entries
func (s *enrollmentService) ListPayments(ctx context.Context, email string) ([]*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.list_payments")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	payments, err := s.payments.ListByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return payments, nil
}

// ListEnrolledClasses retrieves a student's enrolled classes
func (s *enrollmentService) ListEnrolledClasses(ctx context.Context, email string) ([]*domain.EnrolledClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.list_enrolled")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	enrollments, err := s.enrollments.ListByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return enrollments, nil
}
