package entity

import (
	"time"

	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a posted sale. All amounts are derived server-side from the
// lines; client-supplied totals are display-only and never trusted.
type Invoice struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_tenant_no,priority:1" json:"tenant_id"`
	InvoiceNo   string             `gorm:"size:100;not null;uniqueIndex:idx_invoices_tenant_no,priority:2" json:"invoice_no"`
	BookerID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"booker_id"`
	CustomerID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	InvoiceDate time.Time          `gorm:"type:date;not null" json:"invoice_date"`
	SubTotal    decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"sub_total"`
	Discount    decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"discount"`
	Tax         decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total       decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	IsCredit    bool               `gorm:"default:false" json:"is_credit"`
	Status      enum.InvoiceStatus `gorm:"default:0" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	Booker   User          `gorm:"foreignKey:BookerID" json:"-"`
	Customer Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLine is one priced item on an invoice. Invariant:
// LineTotal = UnitPrice*Quantity - Discount + Tax, all rounded to 2 places.
type InvoiceLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	SchemeID   *uuid.UUID      `gorm:"type:uuid" json:"scheme_id,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"` // pieces
	FreeQty    int             `gorm:"default:0" json:"free_qty"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	GSTAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gst_amount"`
	FurtherTax decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"further_tax"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice line
func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLine model
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// TaxTotal is the combined tax on the line
func (l *InvoiceLine) TaxTotal() decimal.Decimal {
	return l.GSTAmount.Add(l.FurtherTax)
}

// InvoiceSequence is the per-tenant allocator row for invoice numbers. It is
// read FOR UPDATE inside the invoice-creating transaction, so two concurrent
// writers serialize on it; a rolled-back invoice leaves a gap but never a
// reused number.
type InvoiceSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	LastNo    int64     `gorm:"not null;default:0" json:"last_no"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
