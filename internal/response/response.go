package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the error body shape shared by middleware and handlers
type Envelope struct {
	Success bool       `json:"success"`
	Error   *ErrorData `json:"error,omitempty"`
}

// ErrorData describes a single error
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error writes an error envelope with the given status
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Error: &ErrorData{
			Code:    code,
			Message: message,
		},
	})
}

// AbortError writes an error envelope and aborts the middleware chain
func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error: &ErrorData{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest writes a 400 error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized writes a 401 error
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden writes a 403 error
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "FORBIDDEN", message)
}

// NotFound writes a 404 error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}

// Conflict writes a 409 error
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, "CONFLICT", message)
}

// BadGateway writes a 502 error for upstream collaborator failures
func BadGateway(c *gin.Context, message string) {
	Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", message)
}

// InternalError writes a 500 error
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error: &ErrorData{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
			Details: err.Error(),
		},
	})
}
