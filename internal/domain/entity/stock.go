package entity

import (
	"time"

	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLine is one batch of a product held by a tenant. Quantity is in
// pieces and never goes below zero outside the explicit force path; a line
// at zero is depleted: still queryable for audit, excluded from FEFO
// selection until re-credited. Only the stock ledger mutates Quantity.
type StockLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tenant_product" json:"tenant_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tenant_product" json:"product_id"`
	BatchNo    string          `gorm:"size:100;not null" json:"batch_no"`
	ExpiryDate time.Time       `gorm:"type:date;not null;index" json:"expiry_date"`
	Quantity   int             `gorm:"not null;default:0" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Tenant  Tenant  `gorm:"foreignKey:TenantID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock line
func (s *StockLine) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockLine model
func (StockLine) TableName() string {
	return "stock_lines"
}

// IsDepleted reports whether the line is excluded from FEFO selection
func (s *StockLine) IsDepleted() bool {
	return s.Quantity <= 0
}

// StockDeduction records which batch an invoice line drew from and how
// much. Voiding an invoice re-credits exactly these rows, keeping
// batch/expiry accounting intact.
type StockDeduction struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceLineID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_line_id"`
	StockLineID   uuid.UUID `gorm:"type:uuid;not null;index" json:"stock_line_id"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	StockLine StockLine `gorm:"foreignKey:StockLineID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock deduction
func (d *StockDeduction) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockDeduction model
func (StockDeduction) TableName() string {
	return "stock_deductions"
}

// StockReceipt is the intake document that creates batches. Approval posts
// the lines into stock.
type StockReceipt struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ReceiptNo    string             `gorm:"size:100;unique;not null" json:"receipt_no"`
	SupplierName *string            `gorm:"size:255" json:"supplier_name,omitempty"`
	ReceiptDate  time.Time          `gorm:"type:date;not null" json:"receipt_date"`
	Status       enum.ReceiptStatus `gorm:"default:0" json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant             `gorm:"foreignKey:TenantID" json:"-"`
	User   User               `gorm:"foreignKey:UserID" json:"-"`
	Lines  []StockReceiptLine `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock receipt
func (r *StockReceipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockReceipt model
func (StockReceipt) TableName() string {
	return "stock_receipts"
}

// StockReceiptLine is one batch arriving on a receipt
type StockReceiptLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchNo    string          `gorm:"size:100;not null" json:"batch_no"`
	ExpiryDate time.Time       `gorm:"type:date;not null" json:"expiry_date"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Receipt StockReceipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Product Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock receipt line
func (l *StockReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockReceiptLine model
func (StockReceiptLine) TableName() string {
	return "stock_receipt_lines"
}
