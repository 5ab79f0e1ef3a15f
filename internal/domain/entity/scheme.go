package entity

import (
	"time"

	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountScheme is a quantity-tier promotion targeting a product or a
// whole brand. A nil TenantID makes the scheme visible to every
// distribution. Date range is inclusive by day; ToQty nil means the tier is
// unbounded above.
type DiscountScheme struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      *uuid.UUID      `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	StartDate     time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time       `gorm:"type:date;not null" json:"end_date"`
	FromQty       int             `gorm:"not null;default:1" json:"from_qty"`
	ToQty         *int            `json:"to_qty,omitempty"`
	PayoutType    enum.PayoutType `gorm:"default:0" json:"payout_type"`
	AmountLess    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_less"` // per unit, for amount_less payout
	FreeProductID *uuid.UUID      `gorm:"type:uuid" json:"free_product_id,omitempty"`
	FreeQty       int             `gorm:"default:0" json:"free_qty"` // pieces granted per tier multiple
	Status        enum.SchemeStatus `gorm:"default:0" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Tenant      *Tenant  `gorm:"foreignKey:TenantID" json:"-"`
	Product     *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Brand       *Brand   `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	FreeProduct *Product `gorm:"foreignKey:FreeProductID" json:"free_product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new discount scheme
func (s *DiscountScheme) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountScheme model
func (DiscountScheme) TableName() string {
	return "discount_schemes"
}

// IsProductLevel reports whether the scheme targets a single product rather
// than a brand
func (s *DiscountScheme) IsProductLevel() bool {
	return s.ProductID != nil
}

// PayoutValue is the magnitude used by the matcher's tie-break: the per-unit
// amount for amount_less schemes, the free piece count for free-goods
// schemes.
func (s *DiscountScheme) PayoutValue() decimal.Decimal {
	if s.PayoutType == enum.PayoutFreeGoods {
		return decimal.NewFromInt(int64(s.FreeQty))
	}
	return s.AmountLess
}
