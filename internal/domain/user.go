package domain

import "time"

// Role represents the authorization role of a user (matches DB CHECK constraint)
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleUnset      Role = "unset"
)

// Valid returns true if the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin, RoleUnset:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// User represents a platform user. At most one record exists per email;
// the role drives every authorization decision.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Claims holds the verified identity extracted from a bearer token.
// Never persisted; only the subject email is meaningful downstream.
type Claims struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
