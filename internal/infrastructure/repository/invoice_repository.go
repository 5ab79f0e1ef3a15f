package repository

import (
	"context"
	"errors"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) CreateLines(ctx context.Context, lines []entity.InvoiceLine) error {
	return conn(ctx, r.db).Create(&lines).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Preload("Customer").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithLines(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByInvoiceNo(ctx context.Context, tc entity.TenantContext, invoiceNo string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).First(&invoice, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, tc entity.TenantContext, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{}).Scopes(TenantScope(tc))

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.BookerID != nil {
		query = query.Where("booker_id = ?", *params.BookerID)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("invoice_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListWithCursor(ctx context.Context, tc entity.TenantContext, params *domainRepo.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	params.Cursor.Validate()
	query := conn(ctx, r.db).Model(&entity.Invoice{}).Scopes(TenantScope(tc))

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.BookerID != nil {
		query = query.Where("booker_id = ?", *params.BookerID)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&invoices).Error

	return invoices, err
}

// NextSequence bumps the tenant's allocator row under a row lock. The first
// allocation for a tenant inserts the row; both paths leave the row locked
// until the surrounding transaction ends.
func (r *invoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	db := conn(ctx, r.db)

	var seq entity.InvoiceSequence
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "tenant_id = ?", tenantID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = entity.InvoiceSequence{TenantID: tenantID, LastNo: 1}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.LastNo, nil
	}
	if err != nil {
		return 0, err
	}

	seq.LastNo++
	if err := db.Model(&entity.InvoiceSequence{}).
		Where("tenant_id = ?", tenantID).
		Update("last_no", seq.LastNo).Error; err != nil {
		return 0, err
	}
	return seq.LastNo, nil
}
