package domain

import "time"

// EnrolledClass is the durable proof that a student paid for and is
// enrolled in a class. Created exactly once per successful commit.
type EnrolledClass struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	ClassID        string    `json:"classId"`
	ClassName      string    `json:"name"`
	Price          float64   `json:"price"`
	Image          string    `json:"image,omitempty"`
	InstructorName string    `json:"instructor,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// EnrollmentCommit carries everything the four-step commit needs. The
// service generates the record IDs up front so the whole unit of work is
// deterministic once it reaches the store.
type EnrollmentCommit struct {
	PaymentID       string
	EnrollmentID    string
	Email           string
	ClassID         string
	SelectedClassID string
	ClassName       string
	Image           string
	InstructorName  string
	TransactionID   string
	Price           float64
	PaidAt          time.Time
}

// EnrollmentCommitResult reports what the commit did, per record. All
// counts reflect a single transaction: either every field shows its
// post-state or the commit returned an error and nothing changed.
type EnrollmentCommitResult struct {
	PaymentID         string
	EnrollmentID      string
	SelectionsDeleted int64
	ClassesUpdated    int64
	AlreadyProcessed  bool
}
