package service

import (
	"context"
	"fmt"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/google/uuid"
)

// StockService is the stock ledger: the only component that mutates batch
// quantities. Deductions walk batches in FEFO order (first expiry, first
// out) and record which batch each invoice line drew from, so a void can
// re-credit exactly what was taken.
type StockService struct {
	stockRepo   repository.StockRepository
	receiptRepo repository.StockReceiptRepository
	productRepo repository.ProductRepository
	txManager   repository.TxManager
}

// NewStockService creates a new stock service
func NewStockService(
	stockRepo repository.StockRepository,
	receiptRepo repository.StockReceiptRepository,
	productRepo repository.ProductRepository,
	txManager repository.TxManager,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		receiptRepo: receiptRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// DeductOptions alters deduction policy. AllowNegative lets the final
// batch go below zero instead of failing the aggregate pre-check; no HTTP
// surface sets it, it exists for privileged corrections.
type DeductOptions struct {
	AllowNegative bool
}

// Deduct removes qty pieces of the product from the tenant's stock for one
// invoice line. Candidate batches are locked FOR UPDATE in expiry order and
// the aggregate is checked before anything changes: on shortage the ledger
// is untouched and an insufficient-stock error is returned. Must run inside
// the caller's transaction.
func (s *StockService) Deduct(ctx context.Context, tc entity.TenantContext, invoiceLineID, productID uuid.UUID, qty int, opts DeductOptions) error {
	if qty <= 0 {
		return apperror.NewValidationMessage("Deduction quantity must be greater than zero")
	}

	lines, err := s.stockRepo.ListAvailableForUpdate(ctx, tc, productID)
	if err != nil {
		return err
	}

	available := 0
	for i := range lines {
		available += lines[i].Quantity
	}
	if available < qty && !opts.AllowNegative {
		return apperror.NewInsufficientStockError(
			fmt.Sprintf("Insufficient stock for product %s: need %d, have %d", productID, qty, available))
	}

	remaining := qty
	for i := range lines {
		if remaining == 0 {
			break
		}
		take := lines[i].Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}

		if err := s.stockRepo.AddQuantity(ctx, lines[i].ID, -take); err != nil {
			return err
		}
		if err := s.stockRepo.CreateDeduction(ctx, &entity.StockDeduction{
			InvoiceLineID: invoiceLineID,
			StockLineID:   lines[i].ID,
			Quantity:      take,
		}); err != nil {
			return err
		}
		remaining -= take
	}

	// Force path: push the shortfall into the last batch.
	if remaining > 0 {
		if !opts.AllowNegative || len(lines) == 0 {
			return apperror.NewInsufficientStockError(
				fmt.Sprintf("Insufficient stock for product %s", productID))
		}
		last := &lines[len(lines)-1]
		if err := s.stockRepo.AddQuantity(ctx, last.ID, -remaining); err != nil {
			return err
		}
		if err := s.stockRepo.CreateDeduction(ctx, &entity.StockDeduction{
			InvoiceLineID: invoiceLineID,
			StockLineID:   last.ID,
			Quantity:      remaining,
		}); err != nil {
			return err
		}
	}

	return nil
}

// Reverse re-credits the batches an invoice line was deducted from, in the
// exact recorded amounts. Batch and expiry accounting stay intact because
// nothing is redistributed.
func (s *StockService) Reverse(ctx context.Context, invoiceLineID uuid.UUID) error {
	deductions, err := s.stockRepo.DeductionsByInvoiceLine(ctx, invoiceLineID)
	if err != nil {
		return err
	}

	for _, d := range deductions {
		if err := s.stockRepo.AddQuantity(ctx, d.StockLineID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// OnHand returns remaining quantity per product for the tenant
func (s *StockService) OnHand(ctx context.Context, tc entity.TenantContext) (map[uuid.UUID]int, error) {
	return s.stockRepo.OnHandByProduct(ctx, tc)
}

// ListStock lists the tenant's stock lines with pagination
func (s *StockService) ListStock(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockLine], error) {
	lines, total, err := s.stockRepo.List(ctx, tc, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(lines, pag), nil
}

// ReceiptLineInput is one arriving batch on a receipt
type ReceiptLineInput struct {
	ProductID  uuid.UUID
	BatchNo    string
	ExpiryDate string // YYYY-MM-DD
	Quantity   int
	UnitCost   string
}

// CreateReceiptInput represents the create receipt input
type CreateReceiptInput struct {
	UserID       uuid.UUID
	SupplierName *string
	ReceiptDate  string // YYYY-MM-DD
	Lines        []ReceiptLineInput
}

// CreateReceipt records a pending stock receipt. Stock does not change
// until the receipt is approved.
func (s *StockService) CreateReceipt(ctx context.Context, tc entity.TenantContext, input *CreateReceiptInput) (*entity.StockReceipt, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidationMessage("Receipt must have at least one line")
	}

	receiptDate, err := utils.ParseDate(input.ReceiptDate)
	if err != nil {
		return nil, apperror.NewValidationMessage("Invalid receipt date")
	}

	receipt := &entity.StockReceipt{
		TenantID:     tc.ID,
		UserID:       input.UserID,
		ReceiptNo:    utils.GenerateReceiptNo(),
		SupplierName: input.SupplierName,
		ReceiptDate:  receiptDate,
		Status:       enum.ReceiptStatusPending,
	}

	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewValidationMessage("Line quantity must be greater than zero")
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", line.ProductID))
		}
		expiry, err := utils.ParseDate(line.ExpiryDate)
		if err != nil {
			return nil, apperror.NewValidationMessage("Invalid expiry date")
		}
		unitCost, err := utils.ParseAmount(line.UnitCost)
		if err != nil {
			return nil, apperror.NewValidationMessage("Invalid unit cost")
		}

		receipt.Lines = append(receipt.Lines, entity.StockReceiptLine{
			ProductID:  line.ProductID,
			BatchNo:    line.BatchNo,
			ExpiryDate: expiry,
			Quantity:   line.Quantity,
			UnitCost:   unitCost,
		})
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ApproveReceipt posts an approved receipt's lines into stock. An existing
// batch for the same product is credited; otherwise a new batch line is
// created. Runs as one transaction.
func (s *StockService) ApproveReceipt(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error) {
	var approved *entity.StockReceipt

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		receipt, err := s.receiptRepo.GetWithLines(ctx, tc, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Stock receipt")
		}
		if receipt.Status == enum.ReceiptStatusApproved {
			return apperror.NewConflictError("Receipt already approved")
		}

		scope := entity.TenantOf(receipt.TenantID)
		for _, line := range receipt.Lines {
			existing, err := s.stockRepo.GetBatch(ctx, scope, line.ProductID, line.BatchNo)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := s.stockRepo.AddQuantity(ctx, existing.ID, line.Quantity); err != nil {
					return err
				}
				continue
			}
			if err := s.stockRepo.Create(ctx, &entity.StockLine{
				TenantID:   receipt.TenantID,
				ProductID:  line.ProductID,
				BatchNo:    line.BatchNo,
				ExpiryDate: line.ExpiryDate,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
			}); err != nil {
				return err
			}
		}

		receipt.Status = enum.ReceiptStatusApproved
		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}
		approved = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// ListReceipts lists the tenant's stock receipts with pagination
func (s *StockService) ListReceipts(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockReceipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, tc, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}
