package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/repository"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// popularClassLimit caps the landing-page popularity list
const popularClassLimit = 6

// ClassService manages the class catalog and student selections
type ClassService interface {
	// CreateClass submits a new class. Status is always pending.
	CreateClass(ctx context.Context, class *domain.Class) (*domain.Class, error)

	// ListApproved retrieves the public catalog
	ListApproved(ctx context.Context) ([]*domain.Class, error)

	// ListPopular retrieves the top approved classes by enrollment
	ListPopular(ctx context.Context) ([]*domain.Class, error)

	// ListAll retrieves every class regardless of status
	ListAll(ctx context.Context) ([]*domain.Class, error)

	// ListByInstructor retrieves an instructor's own classes
	ListByInstructor(ctx context.Context, email string) ([]*domain.Class, error)

	// SetStatus approves or denies a pending class
	SetStatus(ctx context.Context, id string, status domain.ClassStatus) error

	// SetFeedback records admin feedback on a class
	SetFeedback(ctx context.Context, id, feedback string) error

	// SelectClass records a student's intent to enroll
	SelectClass(ctx context.Context, selection *domain.SelectedClass) (*domain.SelectedClass, error)

	// GetSelection retrieves a single pending selection by id
	GetSelection(ctx context.Context, id string) (*domain.SelectedClass, error)

	// ListSelections retrieves a student's pending selections
	ListSelections(ctx context.Context, email string) ([]*domain.SelectedClass, error)

	// RemoveSelection deletes a pending selection
	RemoveSelection(ctx context.Context, id string) error
}

type classService struct {
	classes    repository.ClassRepository
	selections repository.SelectionRepository
	logger     *zap.Logger
}

// NewClassService creates a new ClassService
func NewClassService(classes repository.ClassRepository, selections repository.SelectionRepository, logger *zap.Logger) ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &classService{
		classes:    classes,
		selections: selections,
		logger:     logger,
	}
}

// CreateClass stores a new class in pending status; instructors cannot
// self-approve
func (s *classService) CreateClass(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.create")
	defer span.End()

	if class.InstructorEmail == "" {
		span.SetStatus(codes.Error, "missing instructor email")
		return nil, domain.ErrInvalidEmail
	}
	if class.Price <= 0 {
		span.SetStatus(codes.Error, "invalid price")
		return nil, domain.ErrInvalidPrice
	}

	now := time.Now()
	class.ID = uuid.New().String()
	class.Status = domain.ClassStatusPending
	class.TotalEnrolled = 0
	class.CreatedAt = now
	class.UpdatedAt = now

	span.SetAttributes(
		attribute.String("class_id", class.ID),
		attribute.String("instructor_email", class.InstructorEmail),
	)

	if err := s.classes.Create(ctx, class); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.logger.Info("class submitted",
		zap.String("class_id", class.ID),
		zap.String("instructor_email", class.InstructorEmail),
	)

	span.SetStatus(codes.Ok, "")
	return class, nil
}

// ListApproved retrieves approved classes only
func (s *classService) ListApproved(ctx context.Context) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.list_approved")
	defer span.End()

	classes, err := s.classes.ListByStatus(ctx, domain.ClassStatusApproved)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return classes, nil
}

// ListPopular retrieves the most-enrolled approved classes
func (s *classService) ListPopular(ctx context.Context) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.list_popular")
	defer span.End()

	classes, err := s.classes.ListPopular(ctx, popularClassLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return classes, nil
}

// ListAll retrieves every class for the admin review queue
func (s *classService) ListAll(ctx context.Context) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.list_all")
	defer span.End()

	classes, err := s.classes.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return classes, nil
}

// ListByInstructor retrieves an instructor's classes in every status
func (s *classService) ListByInstructor(ctx context.Context, email string) ([]*domain.Class, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.list_by_instructor")
	defer span.End()

	span.SetAttributes(attribute.String("instructor_email", email))

	classes, err := s.classes.ListByInstructor(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return classes, nil
}

// SetStatus approves or denies a class
func (s *classService) SetStatus(ctx context.Context, id string, status domain.ClassStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "service.class.set_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("class_id", id),
		attribute.String("status", status.String()),
	)

	if id == "" {
		span.SetStatus(codes.Error, "missing class id")
		return domain.ErrInvalidClassID
	}
	if !status.Valid() {
		span.SetStatus(codes.Error, "invalid status")
		return domain.ErrInvalidClassStatus
	}

	if err := s.classes.UpdateStatus(ctx, id, status); err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("class status updated",
		zap.String("class_id", id),
		zap.String("status", status.String()),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}

// SetFeedback records admin feedback on a class
func (s *classService) SetFeedback(ctx context.Context, id, feedback string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.class.set_feedback")
	defer span.End()

	span.SetAttributes(attribute.String("class_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "missing class id")
		return domain.ErrInvalidClassID
	}

	if err := s.classes.UpdateFeedback(ctx, id, feedback); err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// SelectClass records a student's pending selection
func (s *classService) SelectClass(ctx context.Context, selection *domain.SelectedClass) (*domain.SelectedClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.select")
	defer span.End()

	if selection.Email == "" {
		span.SetStatus(codes.Error, "missing email")
		return nil, domain.ErrInvalidEmail
	}
	if selection.ClassID == "" {
		span.SetStatus(codes.Error, "missing class id")
		return nil, domain.ErrInvalidClassID
	}

	selection.ID = uuid.New().String()
	selection.CreatedAt = time.Now()

	span.SetAttributes(
		attribute.String("selection_id", selection.ID),
		attribute.String("email", selection.Email),
		attribute.String("class_id", selection.ClassID),
	)

	if err := s.selections.Create(ctx, selection); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return selection, nil
}

// GetSelection retrieves a single pending selection by id
func (s *classService) GetSelection(ctx context.Context, id string) (*domain.SelectedClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.get_selection")
	defer span.End()

	span.SetAttributes(attribute.String("selection_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "missing selection id")
		return nil, domain.ErrInvalidSelectionID
	}

	selection, err := s.selections.GetByID(ctx, id)
	if err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return selection, nil
}

// ListSelections retrieves a student's pending selections
func (s *classService) ListSelections(ctx context.Context, email string) ([]*domain.SelectedClass, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.class.list_selections")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	selections, err := s.selections.ListByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return selections, nil
}

// RemoveSelection deletes a pending selection by id
func (s *classService) RemoveSelection(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.class.remove_selection")
	defer span.End()

	span.SetAttributes(attribute.String("selection_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "missing selection id")
		return domain.ErrInvalidSelectionID
	}

	if err := s.selections.Delete(ctx, id); err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
