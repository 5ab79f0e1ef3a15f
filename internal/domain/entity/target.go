package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Target is the monthly sales target for one booker in one distribution,
// returned with the master-data pull so the app can show progress offline.
type Target struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_targets_tenant_booker_month,priority:1" json:"tenant_id"`
	BookerID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_targets_tenant_booker_month,priority:2" json:"booker_id"`
	Month     string          `gorm:"size:7;not null;uniqueIndex:idx_targets_tenant_booker_month,priority:3" json:"month"` // YYYY-MM
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	Booker User   `gorm:"foreignKey:BookerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new target
func (t *Target) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Target model
func (Target) TableName() string {
	return "targets"
}
