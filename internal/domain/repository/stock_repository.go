package repository

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// StockRepository defines the interface for stock line and deduction data
// operations. Quantity is only ever changed through these methods, and only
// the stock ledger service calls the mutating ones.
type StockRepository interface {
	Create(ctx context.Context, line *entity.StockLine) error
	GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockLine, error)
	// GetBatch finds the tenant's line for a specific product+batch, if any
	GetBatch(ctx context.Context, tc entity.TenantContext, productID uuid.UUID, batchNo string) (*entity.StockLine, error)
	// ListAvailableForUpdate returns the product's non-depleted lines in
	// FEFO order (earliest expiry first), locked FOR UPDATE. Must be called
	// inside a transaction.
	ListAvailableForUpdate(ctx context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error)
	// ListByProduct returns all of the product's lines, depleted included
	ListByProduct(ctx context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error)
	List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) ([]entity.StockLine, int64, error)
	// OnHandByProduct sums remaining quantity per product for the tenant
	OnHandByProduct(ctx context.Context, tc entity.TenantContext) (map[uuid.UUID]int, error)
	// SetQuantity writes an absolute quantity for a line
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	// AddQuantity increments (or with a negative delta, decrements) a line
	AddQuantity(ctx context.Context, id uuid.UUID, delta int) error

	CreateDeduction(ctx context.Context, d *entity.StockDeduction) error
	DeductionsByInvoiceLine(ctx context.Context, invoiceLineID uuid.UUID) ([]entity.StockDeduction, error)
}

// StockReceiptRepository defines the interface for stock receipt documents
type StockReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.StockReceipt) error
	GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error)
	GetWithLines(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error)
	Update(ctx context.Context, receipt *entity.StockReceipt) error
	List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) ([]entity.StockReceipt, int64, error)
}
