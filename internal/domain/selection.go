package domain

import "time"

// SelectedClass is a student's recorded intent to enroll in a class prior
// to payment. It is deleted by the enrollment commit once payment is durable,
// never before.
type SelectedClass struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	ClassID        string    `json:"classId"`
	ClassName      string    `json:"className,omitempty"`
	Image          string    `json:"image,omitempty"`
	InstructorName string    `json:"instructor,omitempty"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}
