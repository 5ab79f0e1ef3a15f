package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Brand groups products so discount schemes can target a whole line
type Brand struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new brand
func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Brand model
func (Brand) TableName() string {
	return "brands"
}

// Product represents an item in the shared catalog. Products are global:
// they are not owned by a tenant, only stock is. Monetary columns are
// decimal(12,2); tax and margin percentages are stored on the product and
// never re-derived at pricing time.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BrandID        *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Code           string          `gorm:"size:100;unique;not null" json:"code"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	ProductType    *string         `gorm:"size:100" json:"product_type,omitempty"`
	PiecesPerPack  int             `gorm:"default:1" json:"pieces_per_pack"`
	TradePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"trade_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(12,2)" json:"retail_price"`
	GSTRate        decimal.Decimal `gorm:"type:decimal(5,2)" json:"gst_rate"`
	FurtherTaxRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"further_tax_rate"`
	MarginRate     decimal.Decimal `gorm:"type:decimal(5,2)" json:"margin_rate"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"` // computed invoice price per piece
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PackQty converts a quantity given in packs to pieces
func (p *Product) PackQty(packs int) int {
	if p.PiecesPerPack <= 0 {
		return packs
	}
	return packs * p.PiecesPerPack
}

// Reference is a shared (type, value) lookup row: channel, area,
// product_type. Rows are created idempotently on first use.
type Reference struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Type      string         `gorm:"size:100;not null;uniqueIndex:idx_references_type_value" json:"type"`
	Value     string         `gorm:"size:255;not null;uniqueIndex:idx_references_type_value" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new reference
func (r *Reference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reference model
func (Reference) TableName() string {
	return "reference_lookups"
}
