package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/repository"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/melodymaster/enrollment-api/internal/service"
)

const (
	// ContextKeyEmail is the gin context key the verified identity lives
	// under once Authenticate has run
	ContextKeyEmail = "email"
)

// Authenticate verifies the Bearer token and stores the caller's email in
// the request context. Missing or malformed headers and invalid tokens all
// abort with 401; no request reaches a guarded handler unauthenticated.
func Authenticate(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization format")
			return
		}

		claims, err := tokens.Verify(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		c.Set(ContextKeyEmail, claims.Email)
		c.Next()
	}
}

// RequireRole rejects callers whose directory record does not hold the
// given role. It must run after Authenticate; an absent identity is a 401,
// a wrong role a 403. A user missing from the directory holds no role.
func RequireRole(users repository.UserRepository, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := GetEmail(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to resolve user role")
			return
		}

		if user == nil || user.Role != role {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			return
		}

		c.Next()
	}
}

// GetEmail extracts the authenticated email from the gin context
func GetEmail(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok && email != ""
}
