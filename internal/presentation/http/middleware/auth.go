package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

// Permissions checked by route groups
const (
	PermissionReservations = "manage-reservations"
	PermissionInvoices     = "manage-invoices"
	PermissionDirectory    = "manage-directory"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_permissions", claims.Permissions)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission.
// The wildcard permission "*" grants everything.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("claims")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		claims, ok := value.(*utils.JWTClaims)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		if !claims.HasPermission(permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
