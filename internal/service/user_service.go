package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/repository"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// UserService manages the role directory
type UserService interface {
	// Register creates a user unless one already exists for the email.
	// Returns the created user, or nil when the email was already taken.
	Register(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error)

	// GetByEmail retrieves a user by email, nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// HasRole reports whether the email maps to a user holding the role
	HasRole(ctx context.Context, email string, role domain.Role) (bool, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// ListInstructors retrieves all users with the instructor role
	ListInstructors(ctx context.Context) ([]*domain.User, error)

	// PromoteRole sets a user's role by id
	PromoteRole(ctx context.Context, id string, role domain.Role) error
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		users:  users,
		logger: logger,
	}
}

// Register inserts a user record, treating a duplicate email as a no-op
// so social-login upserts stay idempotent
func (s *userService) Register(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	if email == "" {
		span.SetStatus(codes.Error, "missing email")
		return nil, domain.ErrInvalidEmail
	}
	if role == "" {
		role = domain.RoleUnset
	}
	if !role.Valid() {
		span.SetStatus(codes.Error, "invalid role")
		return nil, domain.ErrInvalidRole
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		span.SetStatus(codes.Ok, "already exists")
		return nil, nil
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Photo:     photo,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent insert can still win the race; treat it the same
		// as the existence check above.
		if domain.IsConflictError(err) {
			span.SetStatus(codes.Ok, "already exists")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// GetByEmail retrieves a user by email
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// HasRole answers the role probes. An unknown email is simply "no".
func (s *userService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.has_role")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
		attribute.String("role", role.String()),
	)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	has := user != nil && user.Role == role
	span.SetAttributes(attribute.Bool("has_role", has))
	span.SetStatus(codes.Ok, "")
	return has, nil
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return users, nil
}

// ListInstructors retrieves the public instructor directory
func (s *userService) ListInstructors(ctx context.Context) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list_instructors")
	defer span.End()

	users, err := s.users.ListByRole(ctx, domain.RoleInstructor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return users, nil
}

// PromoteRole sets a user's role
func (s *userService) PromoteRole(ctx context.Context, id string, role domain.Role) error {
	ctx, span := telemetry.StartSpan(ctx, "service.user.promote_role")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", id),
		attribute.String("role", role.String()),
	)

	if id == "" {
		span.SetStatus(codes.Error, "missing user id")
		return domain.ErrInvalidUserID
	}
	if !role.Valid() || role == domain.RoleUnset {
		span.SetStatus(codes.Error, "invalid role")
		return domain.ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if !domain.IsNotFoundError(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("user role updated",
		zap.String("user_id", id),
		zap.String("role", role.String()),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}
