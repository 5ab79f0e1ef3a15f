package entity

import (
	"time"

	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a distribution, the isolation root of the system.
// Every scoped entity carries a tenant id; a nil tenant id on shareable
// entities (discount schemes) means the row applies to all distributions.
type Tenant struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Code      string            `gorm:"size:50;unique;not null" json:"code"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	City      *string           `gorm:"size:100" json:"city,omitempty"`
	Status    enum.TenantStatus `gorm:"default:0" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantContext is the resolved tenant scope for one request. It is passed
// explicitly to every repository call; there is no ambient scope a query
// could fall through to. The zero value matches nothing (fail closed).
type TenantContext struct {
	ID         uuid.UUID
	AllTenants bool
}

// TenantOf scopes to a single distribution
func TenantOf(id uuid.UUID) TenantContext {
	return TenantContext{ID: id}
}

// AllTenantsContext is the privileged cross-distribution scope
func AllTenantsContext() TenantContext {
	return TenantContext{AllTenants: true}
}

// IsEmpty reports whether the context matches no tenant at all
func (tc TenantContext) IsEmpty() bool {
	return !tc.AllTenants && tc.ID == uuid.Nil
}
