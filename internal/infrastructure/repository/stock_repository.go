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

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, line *entity.StockLine) error {
	return conn(ctx, r.db).Create(line).Error
}

func (r *stockRepository) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockLine, error) {
	var line entity.StockLine
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).First(&line, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *stockRepository) GetBatch(ctx context.Context, tc entity.TenantContext, productID uuid.UUID, batchNo string) (*entity.StockLine, error) {
	var line entity.StockLine
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		First(&line, "product_id = ? AND batch_no = ?", productID, batchNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

// ListAvailableForUpdate locks the candidate batches in expiry order. The
// lock is taken row by row in the same order by every writer, which keeps
// concurrent deductions from deadlocking against each other.
func (r *stockRepository) ListAvailableForUpdate(ctx context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error) {
	var lines []entity.StockLine
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(TenantScope(tc)).
		Where("product_id = ? AND quantity > 0", productID).
		Order("expiry_date ASC, created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *stockRepository) ListByProduct(ctx context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error) {
	var lines []entity.StockLine
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Where("product_id = ?", productID).
		Order("expiry_date ASC").
		Find(&lines).Error
	return lines, err
}

func (r *stockRepository) List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) ([]entity.StockLine, int64, error) {
	var lines []entity.StockLine
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockLine{}).Scopes(TenantScope(tc))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Product").
		Order("expiry_date ASC").
		Find(&lines).Error

	return lines, total, err
}

func (r *stockRepository) OnHandByProduct(ctx context.Context, tc entity.TenantContext) (map[uuid.UUID]int, error) {
	type row struct {
		ProductID uuid.UUID
		OnHand    int
	}
	var rows []row
	err := conn(ctx, r.db).Model(&entity.StockLine{}).
		Scopes(TenantScope(tc)).
		Select("product_id, COALESCE(SUM(quantity), 0) AS on_hand").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	onHand := make(map[uuid.UUID]int, len(rows))
	for _, rec := range rows {
		onHand[rec.ProductID] = rec.OnHand
	}
	return onHand, nil
}

func (r *stockRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return conn(ctx, r.db).Model(&entity.StockLine{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *stockRepository) AddQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return conn(ctx, r.db).Model(&entity.StockLine{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *stockRepository) CreateDeduction(ctx context.Context, d *entity.StockDeduction) error {
	return conn(ctx, r.db).Create(d).Error
}

func (r *stockRepository) DeductionsByInvoiceLine(ctx context.Context, invoiceLineID uuid.UUID) ([]entity.StockDeduction, error) {
	var deductions []entity.StockDeduction
	err := conn(ctx, r.db).
		Where("invoice_line_id = ?", invoiceLineID).
		Order("created_at ASC").
		Find(&deductions).Error
	return deductions, err
}

type stockReceiptRepository struct {
	db *gorm.DB
}

// NewStockReceiptRepository creates a new stock receipt repository
func NewStockReceiptRepository(db *gorm.DB) domainRepo.StockReceiptRepository {
	return &stockReceiptRepository{db: db}
}

func (r *stockReceiptRepository) Create(ctx context.Context, receipt *entity.StockReceipt) error {
	return conn(ctx, r.db).Create(receipt).Error
}

func (r *stockReceiptRepository) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error) {
	var receipt entity.StockReceipt
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *stockReceiptRepository) GetWithLines(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error) {
	var receipt entity.StockReceipt
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Preload("Lines").
		Preload("Lines.Product").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *stockReceiptRepository) Update(ctx context.Context, receipt *entity.StockReceipt) error {
	return conn(ctx, r.db).Save(receipt).Error
}

func (r *stockReceiptRepository) List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams) ([]entity.StockReceipt, int64, error) {
	var receipts []entity.StockReceipt
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockReceipt{}).Scopes(TenantScope(tc))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}
