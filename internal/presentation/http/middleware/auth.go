package middleware

import (
	"strings"

	"github.com/attarhouse/attarhouse-api/internal/presentation/http/dto/response"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Roles carried in access tokens
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleAudit = "auditor"
)

// gin context keys set by AuthMiddleware
const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRoles = "user_roles"
)

// AuthMiddleware requires a valid "Bearer <token>" header and stores the
// caller's identity on the context
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRoles, claims.Roles)

		c.Next()
	}
}

// RequireRole lets the request through when the token grants any of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles := c.GetStringSlice(ctxUserRoles)
		if len(userRoles) == 0 {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		claims := utils.JWTClaims{Roles: userRoles}
		if !claims.HasRole(roles...) {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserID returns the authenticated caller, or uuid.Nil when auth is off
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// UserEmail returns the authenticated caller's email, if any
func UserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}
