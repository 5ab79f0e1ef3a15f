package service

import (
	"context"
	"testing"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/google/uuid"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newStockFixture() (*StockService, *fakeStockRepo, *fakeReceiptRepo, *fakeProductRepo) {
	stockRepo := &fakeStockRepo{}
	receiptRepo := &fakeReceiptRepo{}
	productRepo := &fakeProductRepo{}
	svc := NewStockService(stockRepo, receiptRepo, productRepo, &fakeTxManager{})
	return svc, stockRepo, receiptRepo, productRepo
}

func seedBatch(repo *fakeStockRepo, tenantID, productID uuid.UUID, batchNo, expiry string, qty int) uuid.UUID {
	line := entity.StockLine{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ProductID:  productID,
		BatchNo:    batchNo,
		ExpiryDate: day(expiry),
		Quantity:   qty,
	}
	repo.lines = append(repo.lines, line)
	return line.ID
}

func batchQty(repo *fakeStockRepo, id uuid.UUID) int {
	for i := range repo.lines {
		if repo.lines[i].ID == id {
			return repo.lines[i].Quantity
		}
	}
	return -1
}

func TestDeductFEFOOrder(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	tc := entity.TenantOf(tenantID)

	// Seeded out of expiry order on purpose.
	late := seedBatch(stockRepo, tenantID, productID, "B3", "2027-06-01", 50)
	early := seedBatch(stockRepo, tenantID, productID, "B1", "2026-10-01", 10)
	mid := seedBatch(stockRepo, tenantID, productID, "B2", "2026-12-01", 20)

	lineID := uuid.New()
	if err := svc.Deduct(context.Background(), tc, lineID, productID, 25, DeductOptions{}); err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}

	// Earliest expiry drains first, then the next, latest untouched.
	if got := batchQty(stockRepo, early); got != 0 {
		t.Errorf("earliest batch qty = %d, want 0", got)
	}
	if got := batchQty(stockRepo, mid); got != 5 {
		t.Errorf("middle batch qty = %d, want 5", got)
	}
	if got := batchQty(stockRepo, late); got != 50 {
		t.Errorf("latest batch qty = %d, want 50", got)
	}

	// One deduction row per touched batch, recording the exact take.
	deductions, _ := stockRepo.DeductionsByInvoiceLine(context.Background(), lineID)
	if len(deductions) != 2 {
		t.Fatalf("deduction rows = %d, want 2", len(deductions))
	}
	taken := 0
	for _, d := range deductions {
		taken += d.Quantity
	}
	if taken != 25 {
		t.Errorf("deducted total = %d, want 25", taken)
	}
}

func TestDeductConservation(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	tc := entity.TenantOf(tenantID)

	seedBatch(stockRepo, tenantID, productID, "B1", "2026-10-01", 7)
	seedBatch(stockRepo, tenantID, productID, "B2", "2026-11-01", 8)
	before := stockRepo.totalQuantity(productID)

	if err := svc.Deduct(context.Background(), tc, uuid.New(), productID, 9, DeductOptions{}); err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}

	if after := stockRepo.totalQuantity(productID); before-after != 9 {
		t.Errorf("total dropped by %d, want 9", before-after)
	}
}

func TestDeductInsufficientLeavesLedgerUntouched(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	tc := entity.TenantOf(tenantID)

	b1 := seedBatch(stockRepo, tenantID, productID, "B1", "2026-10-01", 5)
	b2 := seedBatch(stockRepo, tenantID, productID, "B2", "2026-11-01", 5)

	err := svc.Deduct(context.Background(), tc, uuid.New(), productID, 11, DeductOptions{})
	if !apperror.IsKind(err, apperror.KindInsufficientStock) {
		t.Fatalf("Deduct() error = %v, want insufficient stock", err)
	}

	if batchQty(stockRepo, b1) != 5 || batchQty(stockRepo, b2) != 5 {
		t.Error("aggregate pre-check failed: batches mutated on shortage")
	}
	if len(stockRepo.deductions) != 0 {
		t.Errorf("recorded %d deductions on a failed deduct, want 0", len(stockRepo.deductions))
	}
}

func TestDeductAllowNegative(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	tc := entity.TenantOf(tenantID)

	b1 := seedBatch(stockRepo, tenantID, productID, "B1", "2026-10-01", 3)
	b2 := seedBatch(stockRepo, tenantID, productID, "B2", "2026-11-01", 4)

	lineID := uuid.New()
	if err := svc.Deduct(context.Background(), tc, lineID, productID, 10, DeductOptions{AllowNegative: true}); err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}

	// Shortfall lands on the last batch in FEFO order.
	if got := batchQty(stockRepo, b1); got != 0 {
		t.Errorf("first batch qty = %d, want 0", got)
	}
	if got := batchQty(stockRepo, b2); got != -3 {
		t.Errorf("last batch qty = %d, want -3", got)
	}

	deductions, _ := stockRepo.DeductionsByInvoiceLine(context.Background(), lineID)
	taken := 0
	for _, d := range deductions {
		taken += d.Quantity
	}
	if taken != 10 {
		t.Errorf("deducted total = %d, want 10", taken)
	}
}

func TestDeductInvalidQuantity(t *testing.T) {
	svc, _, _, _ := newStockFixture()
	tc := entity.TenantOf(uuid.New())

	for _, qty := range []int{0, -5} {
		err := svc.Deduct(context.Background(), tc, uuid.New(), uuid.New(), qty, DeductOptions{})
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("Deduct(qty=%d) error = %v, want validation error", qty, err)
		}
	}
}

func TestDeductScopedToTenant(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	productID := uuid.New()
	otherTenant := uuid.New()

	seedBatch(stockRepo, otherTenant, productID, "B1", "2026-10-01", 100)

	// Plenty of stock exists, but it belongs to someone else.
	err := svc.Deduct(context.Background(), entity.TenantOf(uuid.New()), uuid.New(), productID, 1, DeductOptions{})
	if !apperror.IsKind(err, apperror.KindInsufficientStock) {
		t.Errorf("Deduct() error = %v, want insufficient stock for foreign tenant", err)
	}
}

func TestReverseRestoresExactBatches(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	tc := entity.TenantOf(tenantID)

	b1 := seedBatch(stockRepo, tenantID, productID, "B1", "2026-10-01", 10)
	b2 := seedBatch(stockRepo, tenantID, productID, "B2", "2026-11-01", 20)

	lineID := uuid.New()
	if err := svc.Deduct(context.Background(), tc, lineID, productID, 15, DeductOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reverse(context.Background(), lineID); err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}

	if batchQty(stockRepo, b1) != 10 || batchQty(stockRepo, b2) != 20 {
		t.Errorf("reverse did not restore original batch quantities: b1=%d b2=%d",
			batchQty(stockRepo, b1), batchQty(stockRepo, b2))
	}
}

func TestCreateReceiptValidation(t *testing.T) {
	svc, _, _, productRepo := newStockFixture()
	productID := uuid.New()
	productRepo.products = append(productRepo.products, entity.Product{ID: productID})
	tc := entity.TenantOf(uuid.New())

	validLine := ReceiptLineInput{ProductID: productID, BatchNo: "B1", ExpiryDate: "2027-01-01", Quantity: 10, UnitCost: "12.50"}

	tests := []struct {
		name  string
		tc    entity.TenantContext
		input CreateReceiptInput
		kind  apperror.Kind
	}{
		{"all tenants scope", entity.AllTenantsContext(), CreateReceiptInput{ReceiptDate: "2026-09-01", Lines: []ReceiptLineInput{validLine}}, apperror.KindValidation},
		{"empty scope", entity.TenantContext{}, CreateReceiptInput{ReceiptDate: "2026-09-01", Lines: []ReceiptLineInput{validLine}}, apperror.KindValidation},
		{"no lines", tc, CreateReceiptInput{ReceiptDate: "2026-09-01"}, apperror.KindValidation},
		{"bad date", tc, CreateReceiptInput{ReceiptDate: "01/09/2026", Lines: []ReceiptLineInput{validLine}}, apperror.KindValidation},
		{"zero qty", tc, CreateReceiptInput{ReceiptDate: "2026-09-01", Lines: []ReceiptLineInput{{ProductID: productID, BatchNo: "B1", ExpiryDate: "2027-01-01", Quantity: 0}}}, apperror.KindValidation},
		{"unknown product", tc, CreateReceiptInput{ReceiptDate: "2026-09-01", Lines: []ReceiptLineInput{{ProductID: uuid.New(), BatchNo: "B1", ExpiryDate: "2027-01-01", Quantity: 5}}}, apperror.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReceipt(context.Background(), tt.tc, &tt.input)
			if !apperror.IsKind(err, tt.kind) {
				t.Errorf("CreateReceipt() error = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestApproveReceiptPostsStock(t *testing.T) {
	svc, stockRepo, receiptRepo, productRepo := newStockFixture()
	tenantID := uuid.New()
	productID := uuid.New()
	productRepo.products = append(productRepo.products, entity.Product{ID: productID})
	tc := entity.TenantOf(tenantID)

	// Existing batch gets credited, new batch gets its own line.
	existing := seedBatch(stockRepo, tenantID, productID, "B1", "2027-01-01", 5)

	receipt, err := svc.CreateReceipt(context.Background(), tc, &CreateReceiptInput{
		UserID:      uuid.New(),
		ReceiptDate: "2026-09-01",
		Lines: []ReceiptLineInput{
			{ProductID: productID, BatchNo: "B1", ExpiryDate: "2027-01-01", Quantity: 10, UnitCost: "8.00"},
			{ProductID: productID, BatchNo: "B2", ExpiryDate: "2027-06-01", Quantity: 20, UnitCost: "8.00"},
		},
	})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}
	if receipt.Status != enum.ReceiptStatusPending {
		t.Errorf("new receipt status = %v, want pending", receipt.Status)
	}
	if stockRepo.totalQuantity(productID) != 5 {
		t.Error("pending receipt must not change stock")
	}

	approved, err := svc.ApproveReceipt(context.Background(), tc, receipt.ID)
	if err != nil {
		t.Fatalf("ApproveReceipt() error = %v", err)
	}
	if approved.Status != enum.ReceiptStatusApproved {
		t.Errorf("approved receipt status = %v, want approved", approved.Status)
	}
	if got := batchQty(stockRepo, existing); got != 15 {
		t.Errorf("existing batch qty = %d, want 15", got)
	}
	if got := stockRepo.totalQuantity(productID); got != 35 {
		t.Errorf("total on hand = %d, want 35", got)
	}

	// Re-approval is a conflict, stock unchanged.
	if _, err := svc.ApproveReceipt(context.Background(), tc, receipt.ID); !apperror.IsKind(err, apperror.KindConflict) {
		t.Errorf("second approve error = %v, want conflict", err)
	}
	if receiptRepo.receipts[0].Status != enum.ReceiptStatusApproved {
		t.Error("receipt status changed by failed re-approval")
	}
	if got := stockRepo.totalQuantity(productID); got != 35 {
		t.Errorf("total on hand after re-approval = %d, want 35", got)
	}
}

func TestApproveReceiptNotFound(t *testing.T) {
	svc, _, _, _ := newStockFixture()
	_, err := svc.ApproveReceipt(context.Background(), entity.TenantOf(uuid.New()), uuid.New())
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("ApproveReceipt() error = %v, want not found", err)
	}
}

func TestOnHandSumsPerProduct(t *testing.T) {
	svc, stockRepo, _, _ := newStockFixture()
	tenantID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	seedBatch(stockRepo, tenantID, productA, "A1", "2026-10-01", 5)
	seedBatch(stockRepo, tenantID, productA, "A2", "2026-11-01", 7)
	seedBatch(stockRepo, tenantID, productB, "B1", "2026-12-01", 3)
	seedBatch(stockRepo, uuid.New(), productA, "X1", "2026-12-01", 99) // another tenant

	onHand, err := svc.OnHand(context.Background(), entity.TenantOf(tenantID))
	if err != nil {
		t.Fatal(err)
	}
	if onHand[productA] != 12 {
		t.Errorf("on hand for A = %d, want 12", onHand[productA])
	}
	if onHand[productB] != 3 {
		t.Errorf("on hand for B = %d, want 3", onHand[productB])
	}
}
