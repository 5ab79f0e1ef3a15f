package middleware

import (
	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHeader carries an explicit tenant selection. Admins may point it at
// any active tenant; regular users can only name their own.
const TenantHeader = "X-Tenant-ID"

// TenantMiddleware resolves the tenant scope for the request and stores it
// in the context. Resolution fails closed: a request that cannot be scoped
// is rejected here, it never reaches a handler unscoped.
func TenantMiddleware(tenants *service.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get("principal")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		principal, ok := val.(entity.Principal)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		var override *uuid.UUID
		if header := c.GetHeader(TenantHeader); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(c, "Invalid "+TenantHeader+" header")
				c.Abort()
				return
			}
			override = &id
		}

		tc, err := tenants.Resolve(c.Request.Context(), principal, override)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("tenant_context", tc)
		c.Next()
	}
}

// GetTenantID returns the concrete tenant id the request is scoped to, or
// uuid.Nil for the all-tenants scope and unscoped requests.
func GetTenantID(c *gin.Context) uuid.UUID {
	val, exists := c.Get("tenant_context")
	if !exists {
		return uuid.Nil
	}
	tc, ok := val.(entity.TenantContext)
	if !ok || tc.AllTenants {
		return uuid.Nil
	}
	return tc.ID
}
