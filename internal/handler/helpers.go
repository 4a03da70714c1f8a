package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/melodymaster/enrollment-api/internal/response"
)

// ownedEmailQuery resolves the ?email= query parameter on student-owned
// list endpoints. A missing email short-circuits with an empty list; an
// email that does not match the authenticated caller is a 403. Only when
// the second return is true should the handler proceed.
func ownedEmailQuery(c *gin.Context) (string, bool) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, []any{})
		return "", false
	}

	authEmail, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return "", false
	}

	if email != authEmail {
		response.Forbidden(c, "forbidden access")
		return "", false
	}

	return email, true
}

// writeServiceError maps domain errors onto HTTP statuses
func writeServiceError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrChargeUnavailable):
		response.BadGateway(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
