package repository

import (
	"context"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLines(ctx context.Context, lines []entity.InvoiceLine) error
	GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error)
	GetWithLines(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, tc entity.TenantContext, invoiceNo string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, tc entity.TenantContext, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, tc entity.TenantContext, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)

	// NextSequence locks the tenant's allocator row FOR UPDATE, increments
	// it and returns the new value. Must be called inside a transaction;
	// the lock is what serializes concurrent allocations.
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	BookerID   *uuid.UUID
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// InvoiceCursorFilterParams contains cursor-based filtering parameters
type InvoiceCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	BookerID   *uuid.UUID
	CustomerID *uuid.UUID
}
