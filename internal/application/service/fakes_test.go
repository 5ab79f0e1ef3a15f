package service

import (
	"context"
	"sort"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes backing the service tests. They implement just enough of
// the repository interfaces for the flows under test; transactions are a
// pass-through since atomicity itself is the database's job.

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeStockRepo struct {
	lines      []entity.StockLine
	deductions []entity.StockDeduction
}

func (f *fakeStockRepo) Create(_ context.Context, line *entity.StockLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeStockRepo) GetByID(_ context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockLine, error) {
	for i := range f.lines {
		if f.lines[i].ID == id && f.visible(tc, f.lines[i].TenantID) {
			line := f.lines[i]
			return &line, nil
		}
	}
	return nil, nil
}

func (f *fakeStockRepo) GetBatch(_ context.Context, tc entity.TenantContext, productID uuid.UUID, batchNo string) (*entity.StockLine, error) {
	for i := range f.lines {
		l := &f.lines[i]
		if l.ProductID == productID && l.BatchNo == batchNo && f.visible(tc, l.TenantID) {
			line := *l
			return &line, nil
		}
	}
	return nil, nil
}

func (f *fakeStockRepo) visible(tc entity.TenantContext, tenantID uuid.UUID) bool {
	if tc.AllTenants {
		return true
	}
	if tc.IsEmpty() {
		return false
	}
	return tc.ID == tenantID
}

func (f *fakeStockRepo) ListAvailableForUpdate(_ context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error) {
	var out []entity.StockLine
	for i := range f.lines {
		l := &f.lines[i]
		if l.ProductID == productID && l.Quantity > 0 && f.visible(tc, l.TenantID) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(out[j].ExpiryDate)
	})
	return out, nil
}

func (f *fakeStockRepo) ListByProduct(_ context.Context, tc entity.TenantContext, productID uuid.UUID) ([]entity.StockLine, error) {
	var out []entity.StockLine
	for i := range f.lines {
		if f.lines[i].ProductID == productID && f.visible(tc, f.lines[i].TenantID) {
			out = append(out, f.lines[i])
		}
	}
	return out, nil
}

func (f *fakeStockRepo) List(_ context.Context, tc entity.TenantContext, _ *pagination.PaginationParams) ([]entity.StockLine, int64, error) {
	var out []entity.StockLine
	for i := range f.lines {
		if f.visible(tc, f.lines[i].TenantID) {
			out = append(out, f.lines[i])
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStockRepo) OnHandByProduct(_ context.Context, tc entity.TenantContext) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for i := range f.lines {
		if f.visible(tc, f.lines[i].TenantID) {
			out[f.lines[i].ProductID] += f.lines[i].Quantity
		}
	}
	return out, nil
}

func (f *fakeStockRepo) SetQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	for i := range f.lines {
		if f.lines[i].ID == id {
			f.lines[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeStockRepo) AddQuantity(_ context.Context, id uuid.UUID, delta int) error {
	for i := range f.lines {
		if f.lines[i].ID == id {
			f.lines[i].Quantity += delta
		}
	}
	return nil
}

func (f *fakeStockRepo) CreateDeduction(_ context.Context, d *entity.StockDeduction) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.deductions = append(f.deductions, *d)
	return nil
}

func (f *fakeStockRepo) DeductionsByInvoiceLine(_ context.Context, invoiceLineID uuid.UUID) ([]entity.StockDeduction, error) {
	var out []entity.StockDeduction
	for _, d := range f.deductions {
		if d.InvoiceLineID == invoiceLineID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) totalQuantity(productID uuid.UUID) int {
	total := 0
	for i := range f.lines {
		if f.lines[i].ProductID == productID {
			total += f.lines[i].Quantity
		}
	}
	return total
}

type fakeReceiptRepo struct {
	receipts []entity.StockReceipt
}

func (f *fakeReceiptRepo) Create(_ context.Context, receipt *entity.StockReceipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	f.receipts = append(f.receipts, *receipt)
	return nil
}

func (f *fakeReceiptRepo) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error) {
	return f.GetWithLines(ctx, tc, id)
}

func (f *fakeReceiptRepo) GetWithLines(_ context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.StockReceipt, error) {
	for i := range f.receipts {
		if f.receipts[i].ID == id {
			if !tc.AllTenants && f.receipts[i].TenantID != tc.ID {
				return nil, nil
			}
			receipt := f.receipts[i]
			return &receipt, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) Update(_ context.Context, receipt *entity.StockReceipt) error {
	for i := range f.receipts {
		if f.receipts[i].ID == receipt.ID {
			f.receipts[i] = *receipt
		}
	}
	return nil
}

func (f *fakeReceiptRepo) List(_ context.Context, tc entity.TenantContext, _ *pagination.PaginationParams) ([]entity.StockReceipt, int64, error) {
	var out []entity.StockReceipt
	for i := range f.receipts {
		if tc.AllTenants || f.receipts[i].TenantID == tc.ID {
			out = append(out, f.receipts[i])
		}
	}
	return out, int64(len(out)), nil
}

type fakeProductRepo struct {
	products []entity.Product
}

func (f *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		for i := range f.products {
			if f.products[i].ID == id {
				out = append(out, f.products[i])
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for i := range f.products {
		if f.products[i].Code == code {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	for i := range f.products {
		if f.products[i].ID == product.ID {
			f.products[i] = *product
		}
	}
	return nil
}

func (f *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return f.products, int64(len(f.products)), nil
}

func (f *fakeProductRepo) ListAll(_ context.Context) ([]entity.Product, error) {
	return f.products, nil
}

type fakeCustomerRepo struct {
	customers []entity.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers = append(f.customers, *customer)
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Customer, error) {
	for i := range f.customers {
		if f.customers[i].ID == id {
			if !tc.AllTenants && f.customers[i].TenantID != tc.ID {
				return nil, nil
			}
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	for i := range f.customers {
		if f.customers[i].ID == customer.ID {
			f.customers[i] = *customer
		}
	}
	return nil
}

func (f *fakeCustomerRepo) List(_ context.Context, tc entity.TenantContext, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for i := range f.customers {
		if tc.AllTenants || f.customers[i].TenantID == tc.ID {
			out = append(out, f.customers[i])
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) ListByBooker(_ context.Context, tc entity.TenantContext, bookerID uuid.UUID) ([]entity.Customer, error) {
	var out []entity.Customer
	for i := range f.customers {
		if f.customers[i].BookerID == bookerID && (tc.AllTenants || f.customers[i].TenantID == tc.ID) {
			out = append(out, f.customers[i])
		}
	}
	return out, nil
}

type fakeVisitRepo struct {
	visits []entity.Visit
}

func (f *fakeVisitRepo) Create(_ context.Context, visit *entity.Visit) error {
	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}
	f.visits = append(f.visits, *visit)
	return nil
}

func (f *fakeVisitRepo) GetByID(_ context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Visit, error) {
	for i := range f.visits {
		if f.visits[i].ID == id {
			if !tc.AllTenants && f.visits[i].TenantID != tc.ID {
				return nil, nil
			}
			v := f.visits[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeVisitRepo) Update(_ context.Context, visit *entity.Visit) error {
	for i := range f.visits {
		if f.visits[i].ID == visit.ID {
			f.visits[i] = *visit
		}
	}
	return nil
}

func (f *fakeVisitRepo) List(_ context.Context, tc entity.TenantContext, bookerID *uuid.UUID, _ *pagination.PaginationParams) ([]entity.Visit, int64, error) {
	var out []entity.Visit
	for i := range f.visits {
		if !tc.AllTenants && f.visits[i].TenantID != tc.ID {
			continue
		}
		if bookerID != nil && f.visits[i].BookerID != *bookerID {
			continue
		}
		out = append(out, f.visits[i])
	}
	return out, int64(len(out)), nil
}

type fakeTenantRepo struct {
	tenants []entity.Tenant
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *entity.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	f.tenants = append(f.tenants, *tenant)
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Tenant, error) {
	for i := range f.tenants {
		if f.tenants[i].ID == id {
			t := f.tenants[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) GetByCode(_ context.Context, code string) (*entity.Tenant, error) {
	for i := range f.tenants {
		if f.tenants[i].Code == code {
			t := f.tenants[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, tenant *entity.Tenant) error {
	for i := range f.tenants {
		if f.tenants[i].ID == tenant.ID {
			f.tenants[i] = *tenant
		}
	}
	return nil
}

func (f *fakeTenantRepo) ListAll(_ context.Context, _ *pagination.PaginationParams) ([]entity.Tenant, int64, error) {
	return f.tenants, int64(len(f.tenants)), nil
}

type fakeSchemeRepo struct {
	schemes []entity.DiscountScheme
}

func (f *fakeSchemeRepo) Create(_ context.Context, scheme *entity.DiscountScheme) error {
	if scheme.ID == uuid.Nil {
		scheme.ID = uuid.New()
	}
	f.schemes = append(f.schemes, *scheme)
	return nil
}

func (f *fakeSchemeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.DiscountScheme, error) {
	for i := range f.schemes {
		if f.schemes[i].ID == id {
			s := f.schemes[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSchemeRepo) ListCandidates(_ context.Context, tc entity.TenantContext, productID uuid.UUID, brandID *uuid.UUID, date time.Time) ([]entity.DiscountScheme, error) {
	var out []entity.DiscountScheme
	day := date.Truncate(24 * time.Hour)
	for i := range f.schemes {
		s := &f.schemes[i]
		if s.Status != enum.SchemeStatusActive {
			continue
		}
		if s.TenantID != nil && (!tc.AllTenants && *s.TenantID != tc.ID) {
			continue
		}
		if day.Before(s.StartDate.Truncate(24*time.Hour)) || day.After(s.EndDate.Truncate(24*time.Hour)) {
			continue
		}
		targetsProduct := s.ProductID != nil && *s.ProductID == productID
		targetsBrand := s.BrandID != nil && brandID != nil && *s.BrandID == *brandID
		if !targetsProduct && !targetsBrand {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSchemeRepo) ListActive(_ context.Context, tc entity.TenantContext, date time.Time) ([]entity.DiscountScheme, error) {
	var out []entity.DiscountScheme
	day := date.Truncate(24 * time.Hour)
	for i := range f.schemes {
		s := &f.schemes[i]
		if s.Status != enum.SchemeStatusActive {
			continue
		}
		if s.TenantID != nil && (!tc.AllTenants && *s.TenantID != tc.ID) {
			continue
		}
		if day.Before(s.StartDate.Truncate(24*time.Hour)) || day.After(s.EndDate.Truncate(24*time.Hour)) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	invoices  []entity.Invoice
	lines     []entity.InvoiceLine
	sequences map[uuid.UUID]int64

	// failDuplicateNos makes every header insert fail the way a unique
	// violation on (tenant_id, invoice_no) does, simulating a writer on
	// another replica winning the number race every time.
	failDuplicateNos bool

	// failSequenceDup makes NextSequence fail the way the loser of a race
	// to insert a tenant's first allocator row does: both transactions
	// miss the row, one insert hits the primary key.
	failSequenceDup bool
	seqCalls        int
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if f.failDuplicateNos {
		return gorm.ErrDuplicatedKey
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.invoices = append(f.invoices, *invoice)
	return nil
}

func (f *fakeInvoiceRepo) CreateLines(_ context.Context, lines []entity.InvoiceLine) error {
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	return f.GetWithLines(ctx, tc, id)
}

func (f *fakeInvoiceRepo) GetWithLines(_ context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Invoice, error) {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			if !tc.AllTenants && f.invoices[i].TenantID != tc.ID {
				return nil, nil
			}
			invoice := f.invoices[i]
			invoice.Lines = nil
			for j := range f.lines {
				if f.lines[j].InvoiceID == id {
					invoice.Lines = append(invoice.Lines, f.lines[j])
				}
			}
			return &invoice, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetByInvoiceNo(_ context.Context, tc entity.TenantContext, invoiceNo string) (*entity.Invoice, error) {
	for i := range f.invoices {
		if f.invoices[i].InvoiceNo == invoiceNo && (tc.AllTenants || f.invoices[i].TenantID == tc.ID) {
			invoice := f.invoices[i]
			return &invoice, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	for i := range f.invoices {
		if f.invoices[i].ID == invoice.ID {
			saved := *invoice
			saved.Lines = nil
			f.invoices[i] = saved
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, tc entity.TenantContext, _ *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for i := range f.invoices {
		if tc.AllTenants || f.invoices[i].TenantID == tc.ID {
			out = append(out, f.invoices[i])
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListWithCursor(_ context.Context, tc entity.TenantContext, _ *repository.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var out []entity.Invoice
	for i := range f.invoices {
		if tc.AllTenants || f.invoices[i].TenantID == tc.ID {
			out = append(out, f.invoices[i])
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) NextSequence(_ context.Context, tenantID uuid.UUID) (int64, error) {
	f.seqCalls++
	if f.failSequenceDup {
		return 0, gorm.ErrDuplicatedKey
	}
	if f.sequences == nil {
		f.sequences = make(map[uuid.UUID]int64)
	}
	f.sequences[tenantID]++
	return f.sequences[tenantID], nil
}

type fakeSyncRepo struct {
	records []entity.SyncRecord
}

func (f *fakeSyncRepo) Get(_ context.Context, tenantID uuid.UUID, recordType enum.SyncRecordType, token string) (*entity.SyncRecord, error) {
	for i := range f.records {
		r := &f.records[i]
		if r.TenantID == tenantID && r.RecordType == recordType && r.Token == token {
			record := *r
			return &record, nil
		}
	}
	return nil, nil
}

func (f *fakeSyncRepo) Create(_ context.Context, record *entity.SyncRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.records = append(f.records, *record)
	return nil
}

type fakeUserRepo struct {
	users []entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
		}
	}
	return nil
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tc entity.TenantContext) ([]entity.User, error) {
	var out []entity.User
	for i := range f.users {
		if tc.AllTenants || (f.users[i].TenantID != nil && *f.users[i].TenantID == tc.ID) {
			out = append(out, f.users[i])
		}
	}
	return out, nil
}
