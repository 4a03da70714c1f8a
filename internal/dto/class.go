package dto

// CreateClassRequest is the body for POST /classes. Status is always
// forced to pending server-side; instructors cannot self-approve.
type CreateClassRequest struct {
	Name            string  `json:"name" binding:"required"`
	Image           string  `json:"image"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" binding:"required,email"`
	AvailableSeats  int     `json:"availableSeats" binding:"required,gte=0"`
	Price           float64 `json:"price" binding:"required,gt=0"`
}

// UpdateClassStatusRequest is the body for PATCH /all-classes/:id
type UpdateClassStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateFeedbackRequest is the body for PATCH /feedback/:id
type UpdateFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SelectClassRequest is the body for POST /selected-classes
type SelectClassRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	ClassID    string  `json:"classId" binding:"required"`
	ClassName  string  `json:"className"`
	Image      string  `json:"image"`
	Instructor string  `json:"instructor"`
	Price      float64 `json:"price"`
}
