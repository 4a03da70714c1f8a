package dto

// CreateUserRequest is the body for POST /users. Role is optional and
// defaults to unset; role promotion is a separate admin operation.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

// CreateUserResponse reports the outcome of a user upsert
type CreateUserResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
	Message      string `json:"message,omitempty"`
}

// UpdateRoleRequest is the body for PATCH /users/:id
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
