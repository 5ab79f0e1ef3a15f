package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit is a booker's call on a customer. Created on check-in, mutated
// exactly once on check-out, never deleted.
type Visit struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BookerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"booker_id"`
	CustomerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	CheckInAt    time.Time      `gorm:"not null" json:"check_in_at"`
	CheckInLat   float64        `json:"check_in_lat"`
	CheckInLng   float64        `json:"check_in_lng"`
	CheckOutAt   *time.Time     `json:"check_out_at,omitempty"`
	CheckOutLat  *float64       `json:"check_out_lat,omitempty"`
	CheckOutLng  *float64       `json:"check_out_lng,omitempty"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant   `gorm:"foreignKey:TenantID" json:"-"`
	Booker   User     `gorm:"foreignKey:BookerID" json:"-"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new visit
func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Visit model
func (Visit) TableName() string {
	return "visits"
}

// IsCheckedOut reports whether the visit has been closed
func (v *Visit) IsCheckedOut() bool {
	return v.CheckOutAt != nil
}
