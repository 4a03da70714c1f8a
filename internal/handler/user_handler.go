package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/dto"
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/melodymaster/enrollment-api/internal/service"
)

// UserHandler manages the user directory and role probes
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser handles POST /users. Registration is an upsert: a repeated
// social login for a known email acknowledges without inserting.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "valid email is required")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Name, req.Photo, domain.Role(req.Role))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, dto.CreateUserResponse{
			Acknowledged: false,
			Message:      "user already exists",
		})
		return
	}

	c.JSON(http.StatusOK, dto.CreateUserResponse{
		Acknowledged: true,
		InsertedID:   user.ID,
	})
}

// ListUsers handles GET /users (admin only)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if users == nil {
		users = []*domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

// ListInstructors handles GET /instructors (public)
func (h *UserHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.users.ListInstructors(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if instructors == nil {
		instructors = []*domain.User{}
	}
	c.JSON(http.StatusOK, instructors)
}

// UpdateRole handles PATCH /users/:id (admin only)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "role is required")
		return
	}

	if err := h.users.PromoteRole(c.Request.Context(), id, domain.Role(req.Role)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  1,
		ModifiedCount: 1,
	})
}

// ProbeStudent handles GET /users/student/:email
func (h *UserHandler) ProbeStudent(c *gin.Context) {
	h.probeRole(c, domain.RoleStudent)
}

// ProbeInstructor handles GET /users/instructor/:email
func (h *UserHandler) ProbeInstructor(c *gin.Context) {
	h.probeRole(c, domain.RoleInstructor)
}

// ProbeAdmin handles GET /users/admin/:email
func (h *UserHandler) ProbeAdmin(c *gin.Context) {
	h.probeRole(c, domain.RoleAdmin)
}

// probeRole answers whether the path email holds the given role. Callers
// may only probe themselves; a mismatched email answers false rather than
// erroring, so the frontend can gate navigation on a single shape.
func (h *UserHandler) probeRole(c *gin.Context, role domain.Role) {
	email := c.Param("email")

	authEmail, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	resp := dto.RoleProbeResponse{}
	falseValue := false

	if email != authEmail {
		setProbeField(&resp, role, &falseValue)
		c.JSON(http.StatusOK, resp)
		return
	}

	has, err := h.users.HasRole(c.Request.Context(), email, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	setProbeField(&resp, role, &has)
	c.JSON(http.StatusOK, resp)
}

func setProbeField(resp *dto.RoleProbeResponse, role domain.Role, value *bool) {
	switch role {
	case domain.RoleStudent:
		resp.Student = value
	case domain.RoleInstructor:
		resp.Instructor = value
	case domain.RoleAdmin:
		resp.Admin = value
	}
}
