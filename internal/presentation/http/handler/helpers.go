package handler

import (
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetPrincipal extracts the authenticated principal from the Gin context
func GetPrincipal(c *gin.Context) (entity.Principal, bool) {
	val, exists := c.Get("principal")
	if !exists {
		return entity.Principal{}, false
	}
	principal, ok := val.(entity.Principal)
	return principal, ok
}

// GetTenantContext extracts the resolved tenant scope from the Gin context.
// The zero value matches nothing, so a handler that forgets the tenant
// middleware returns empty result sets rather than leaking across tenants.
func GetTenantContext(c *gin.Context) entity.TenantContext {
	val, exists := c.Get("tenant_context")
	if !exists {
		return entity.TenantContext{}
	}
	tc, ok := val.(entity.TenantContext)
	if !ok {
		return entity.TenantContext{}
	}
	return tc
}
