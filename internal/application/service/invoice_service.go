package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldserv/dms-api/internal/config"
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService posts invoices. Creation is one transaction covering
// number allocation, server-side pricing, header+line insert and FEFO stock
// deduction; any failure rolls the whole thing back, including the number.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	tenantRepo   repository.TenantRepository
	pricing      *PricingService
	schemes      *SchemeService
	stock        *StockService
	txManager    repository.TxManager
	cfg          *config.InvoiceConfig
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	tenantRepo repository.TenantRepository,
	pricing *PricingService,
	schemes *SchemeService,
	stock *StockService,
	txManager repository.TxManager,
	cfg *config.InvoiceConfig,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		tenantRepo:   tenantRepo,
		pricing:      pricing,
		schemes:      schemes,
		stock:        stock,
		txManager:    txManager,
		cfg:          cfg,
	}
}

// InvoiceLineInput represents one requested line
type InvoiceLineInput struct {
	ProductID uuid.UUID
	Quantity  int // pieces
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	BookerID    uuid.UUID
	CustomerID  uuid.UUID
	InvoiceDate string // YYYY-MM-DD, empty = today
	IsCredit    bool
	Lines       []InvoiceLineInput
}

// CreateInvoice validates, prices and posts an invoice atomically. On an
// invoice-number collision (two writers racing past the lock on different
// replicas) the whole transaction retries with backoff, a bounded number of
// times, before giving up with a conflict error.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tc entity.TenantContext, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidationMessage("Invoice must have at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewValidationMessage("Line quantity must be greater than zero")
		}
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != "" {
		parsed, err := utils.ParseDate(input.InvoiceDate)
		if err != nil {
			return nil, apperror.NewValidationMessage("Invalid invoice date")
		}
		invoiceDate = parsed
	}

	retries := s.cfg.AllocationRetries
	if retries < 1 {
		retries = 1
	}

	var invoice *entity.Invoice
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		invoice, err = s.createOnce(ctx, tc, input, invoiceDate)
		if err == nil {
			return invoice, nil
		}
		if !apperror.IsKind(err, apperror.KindConflict) {
			return nil, err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return nil, apperror.NewConflictError("Could not allocate an invoice number, please retry")
}

func (s *InvoiceService) createOnce(ctx context.Context, tc entity.TenantContext, input *CreateInvoiceInput, invoiceDate time.Time) (*entity.Invoice, error) {
	var created *entity.Invoice

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, tc, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}

		tenant, err := s.tenantRepo.GetByID(ctx, tc.ID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return apperror.NewNotFoundError("Tenant")
		}

		productIDs := make([]uuid.UUID, len(input.Lines))
		for i, line := range input.Lines {
			productIDs[i] = line.ProductID
		}
		products, err := s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		productMap := make(map[uuid.UUID]*entity.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}

		// Two transactions racing on a tenant's first invoice both miss
		// the allocator row; the loser's insert hits the primary key and
		// must come back as a conflict so the retry loop engages.
		seq, err := s.invoiceRepo.NextSequence(ctx, tc.ID)
		if err != nil {
			return translateDuplicate(err)
		}

		invoice := &entity.Invoice{
			ID:          uuid.New(),
			TenantID:    tc.ID,
			InvoiceNo:   utils.FormatInvoiceNo(s.cfg.Prefix, tenant.Code, seq),
			BookerID:    input.BookerID,
			CustomerID:  input.CustomerID,
			InvoiceDate: invoiceDate,
			IsCredit:    input.IsCredit,
			Status:      enum.InvoiceStatusPosted,
		}

		lines := make([]entity.InvoiceLine, 0, len(input.Lines))
		// Product the free pieces come out of, per line: the scheme's free
		// product when it names one, the sold product otherwise.
		freeFrom := make([]uuid.UUID, 0, len(input.Lines))
		for _, line := range input.Lines {
			product, exists := productMap[line.ProductID]
			if !exists {
				return apperror.NewNotFoundError(fmt.Sprintf("Product %s", line.ProductID))
			}

			scheme, err := s.schemes.Match(ctx, tc, product, line.Quantity, invoiceDate)
			if err != nil {
				return err
			}
			breakdown, err := s.pricing.PriceLine(product, line.Quantity, scheme)
			if err != nil {
				return err
			}

			invoiceLine := entity.InvoiceLine{
				ID:         uuid.New(),
				InvoiceID:  invoice.ID,
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				FreeQty:    breakdown.FreeQty,
				UnitPrice:  product.UnitPrice,
				Discount:   breakdown.Discount,
				GSTAmount:  breakdown.GSTAmount,
				FurtherTax: breakdown.FurtherTax,
				LineTotal:  breakdown.Total,
			}
			freeProduct := product.ID
			if scheme != nil {
				invoiceLine.SchemeID = &scheme.ID
				if scheme.FreeProductID != nil {
					freeProduct = *scheme.FreeProductID
				}
			}
			lines = append(lines, invoiceLine)
			freeFrom = append(freeFrom, freeProduct)
		}

		invoice.Lines = lines
		RecalculateTotals(invoice)

		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return translateDuplicate(err)
		}
		if err := s.invoiceRepo.CreateLines(ctx, lines); err != nil {
			return err
		}

		// Deduct sold pieces, then free pieces from the scheme's free
		// product, FEFO both ways.
		for i := range lines {
			if err := s.stock.Deduct(ctx, tc, lines[i].ID, lines[i].ProductID, lines[i].Quantity, DeductOptions{}); err != nil {
				return err
			}
			if lines[i].FreeQty > 0 {
				if err := s.stock.Deduct(ctx, tc, lines[i].ID, freeFrom[i], lines[i].FreeQty, DeductOptions{}); err != nil {
					return err
				}
			}
		}

		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithLines(ctx, tc, created.ID)
}

// RecalculateTotals re-derives the header amounts from the lines. It is a
// pure function of line state: calling it any number of times on the same
// lines yields identical totals.
func RecalculateTotals(invoice *entity.Invoice) {
	subTotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	total := decimal.Zero

	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subTotal = subTotal.Add(gross)
		discount = discount.Add(line.Discount)
		tax = tax.Add(line.TaxTotal())
		total = total.Add(line.LineTotal)
	}

	invoice.SubTotal = subTotal.Round(2)
	invoice.Discount = discount.Round(2)
	invoice.Tax = tax.Round(2)
	invoice.Total = total.Round(2)
}

// GetInvoice retrieves an invoice with its lines
func (s *InvoiceService) GetInvoice(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithLines(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, tc entity.TenantContext, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, tc, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists invoices with cursor-based pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, tc entity.TenantContext, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	invoices, err := s.invoiceRepo.ListWithCursor(ctx, tc, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor.Limit,
		func(inv entity.Invoice) string { return inv.ID.String() },
		func(inv entity.Invoice) time.Time { return inv.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// VoidInvoice marks a posted invoice voided and re-credits the exact
// batches its lines were deducted from. Idempotence comes from the status
// check: a voided invoice cannot be voided again.
func (s *InvoiceService) VoidInvoice(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	var voided *entity.Invoice

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetWithLines(ctx, tc, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status == enum.InvoiceStatusVoided {
			return apperror.NewConflictError("Invoice is already voided")
		}

		for i := range invoice.Lines {
			if err := s.stock.Reverse(ctx, invoice.Lines[i].ID); err != nil {
				return err
			}
		}

		invoice.Status = enum.InvoiceStatusVoided
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return err
		}
		voided = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}
