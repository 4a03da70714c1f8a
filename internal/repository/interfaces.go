package repository

import (
	"context"

	"github.com/melodymaster/enrollment-api/internal/domain"
)

// UserRepository provides access to the role directory
type UserRepository interface {
	// Create inserts a new user record
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email, returning nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// ListByRole retrieves all users with the given role
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// UpdateRole sets the role of a user by id
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

// ClassRepository provides access to class records
type ClassRepository interface {
	// Create inserts a new class record
	Create(ctx context.Context, class *domain.Class) error

	// GetByID retrieves a class by id
	GetByID(ctx context.Context, id string) (*domain.Class, error)

	// List retrieves all classes regardless of status
	List(ctx context.Context) ([]*domain.Class, error)

	// ListByStatus retrieves classes with the given status
	ListByStatus(ctx context.Context, status domain.ClassStatus) ([]*domain.Class, error)

	// ListPopular retrieves the most-enrolled approved classes
	ListPopular(ctx context.Context, limit int) ([]*domain.Class, error)

	// ListByInstructor retrieves classes owned by an instructor email
	ListByInstructor(ctx context.Context, email string) ([]*domain.Class, error)

	// UpdateStatus sets the approval status of a class
	UpdateStatus(ctx context.Context, id string, status domain.ClassStatus) error

	// UpdateFeedback sets the admin feedback on a class
	UpdateFeedback(ctx context.Context, id, feedback string) error
}

// SelectionRepository provides access to pending class selections
type SelectionRepository interface {
	// Create inserts a new selection
	Create(ctx context.Context, selection *domain.SelectedClass) error

	// GetByID retrieves a selection by id
	GetByID(ctx context.Context, id string) (*domain.SelectedClass, error)

	// ListByEmail retrieves all selections for a student
	ListByEmail(ctx context.Context, email string) ([]*domain.SelectedClass, error)

	// Delete removes a selection by id
	Delete(ctx context.Context, id string) error
}

// PaymentRepository provides read access to the payment ledger
type PaymentRepository interface {
	// ListByEmail retrieves payments for a student, newest first
	ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}

// EnrollmentRepository provides read access to enrollment records
type EnrollmentRepository interface {
	// ListByEmail retrieves enrolled classes for a student
	ListByEmail(ctx context.Context, email string) ([]*domain.EnrolledClass, error)
}

// EnrollmentStore executes the four-step enrollment commit as one unit of
// work: insert payment, delete selection, insert enrollment, and apply the
// seat-guarded class counter update. Implementations must guarantee that a
// failure at any step leaves no record changed.
type EnrollmentStore interface {
	Commit(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error)
}
