package dto

// TokenRequest is the body for POST /jwt
type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// TokenResponse carries the signed bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// RoleProbeResponse answers the /users/<role>/:email checks. Exactly one
// field is set per endpoint.
type RoleProbeResponse struct {
	Student    *bool `json:"student,omitempty"`
	Instructor *bool `json:"instructor,omitempty"`
	Admin      *bool `json:"admin,omitempty"`
}
