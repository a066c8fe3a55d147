// Package middleware contains the Gin middleware for the identity service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/repository"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserIDKey = "user_id"
	ContextAdminKey  = "admin"
)

// UserAuth validates a user bearer token and stores the user id in the
// request context. Any failure yields a uniform 401.
func UserAuth(jwt service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := jwt.ValidateUserToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// AdminAuth validates an admin bearer token and re-fetches the Admin record
// so permission checks always see fresh authorization data rather than the
// token's embedded role.
func AdminAuth(jwt service.JWTService, admins repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := jwt.ValidateAdminToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		admin, err := admins.FindByID(c.Request.Context(), claims.AdminID)
		if err != nil || !admin.IsActive {
			abortUnauthorized(c)
			return
		}
		c.Set(ContextAdminKey, admin)
		c.Next()
	}
}

// RequireSuperAdmin gates an endpoint to super admins. Must run after
// AdminAuth.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := AdminFromContext(c)
		if admin == nil {
			abortUnauthorized(c)
			return
		}
		if !admin.IsSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "super admin access required"})
			return
		}
		c.Next()
	}
}

// RequirePermission gates an endpoint by a named capability. Super admins
// pass unconditionally. Must run after AdminAuth.
func RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := AdminFromContext(c)
		if admin == nil {
			abortUnauthorized(c)
			return
		}
		if !admin.HasPermission(name) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission '" + name + "' required"})
			return
		}
		c.Next()
	}
}

// AdminFromContext returns the admin stored by AdminAuth, or nil.
func AdminFromContext(c *gin.Context) *models.Admin {
	value, ok := c.Get(ContextAdminKey)
	if !ok {
		return nil
	}
	admin, ok := value.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}

// UserIDFromContext returns the user id stored by UserAuth, or zero.
func UserIDFromContext(c *gin.Context) int64 {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0
	}
	id, ok := value.(int64)
	if !ok {
		return 0
	}
	return id
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication credentials"})
}
