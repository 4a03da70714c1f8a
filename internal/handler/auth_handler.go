package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/dto"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/melodymaster/enrollment-api/internal/service"
)

// AuthHandler issues bearer tokens
type AuthHandler struct {
	tokens service.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(tokens service.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// IssueToken handles POST /jwt. The frontend calls this right after a
// social login completes; the token only attests to the email, roles are
// resolved per request.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "valid email is required")
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
