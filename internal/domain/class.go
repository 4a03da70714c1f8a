package domain

import "time"

// ClassStatus represents the approval state of a class (matches DB CHECK constraint)
type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusDenied   ClassStatus = "denied"
)

// Valid returns true if the status is one of the known states
func (s ClassStatus) Valid() bool {
	switch s {
	case ClassStatusPending, ClassStatusApproved, ClassStatusDenied:
		return true
	}
	return false
}

func (s ClassStatus) String() string {
	return string(s)
}

// Class represents a course offering. AvailableSeats and TotalEnrolled are
// the only fields mutated concurrently; the enrollment commit updates both
// in one conditional statement so seats can never go negative.
type Class struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Image           string      `json:"image,omitempty"`
	InstructorName  string      `json:"instructorName,omitempty"`
	InstructorEmail string      `json:"instructorEmail"`
	Status          ClassStatus `json:"status"`
	AvailableSeats  int         `json:"availableSeats"`
	TotalEnrolled   int         `json:"totalEnrolled"`
	Price           float64     `json:"price"`
	Feedback        string      `json:"feedback,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
