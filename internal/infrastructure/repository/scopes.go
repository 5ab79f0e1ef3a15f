package repository

import (
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"gorm.io/gorm"
)

// TenantScope filters a query by the explicitly resolved tenant context.
// Privileged all-tenants contexts pass through unfiltered; an empty context
// matches nothing, so a request that never resolved a tenant can not read
// another tenant's rows by accident.
func TenantScope(tc entity.TenantContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tc.AllTenants {
			return db
		}
		if tc.IsEmpty() {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tc.ID)
	}
}
