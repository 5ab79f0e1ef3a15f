package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fieldserv/dms-api/internal/config"
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/google/uuid"
)

// SyncService reconciles offline batches uploaded by the mobile app. A
// batch is applied in one transaction, customers first, then visits, then
// invoices, so later records can reference earlier ones by their
// client-local id. Each record carries an idempotency token; a replayed
// batch resolves every token to the row it created the first time and
// creates nothing new.
type SyncService struct {
	syncRepo     repository.SyncRepository
	customerRepo repository.CustomerRepository
	visitRepo    repository.VisitRepository
	invoices     *InvoiceService
	txManager    repository.TxManager
	cfg          *config.SyncConfig
}

// NewSyncService creates a new sync service
func NewSyncService(
	syncRepo repository.SyncRepository,
	customerRepo repository.CustomerRepository,
	visitRepo repository.VisitRepository,
	invoices *InvoiceService,
	txManager repository.TxManager,
	cfg *config.SyncConfig,
) *SyncService {
	return &SyncService{
		syncRepo:     syncRepo,
		customerRepo: customerRepo,
		visitRepo:    visitRepo,
		invoices:     invoices,
		txManager:    txManager,
		cfg:          cfg,
	}
}

// SyncCustomerInput is one offline-created customer
type SyncCustomerInput struct {
	LocalID   string
	Token     string
	Name      string
	Phone     *string
	Address   *string
	Channel   *string
	Latitude  *float64
	Longitude *float64
}

// SyncVisitInput is one offline-recorded visit
type SyncVisitInput struct {
	LocalID     string
	Token       string
	CustomerRef string // server uuid or a customer's local id from this batch
	CheckInAt   time.Time
	CheckInLat  float64
	CheckInLng  float64
	CheckOutAt  *time.Time
	CheckOutLat *float64
	CheckOutLng *float64
	Notes       *string
}

// SyncInvoiceInput is one offline-posted invoice
type SyncInvoiceInput struct {
	LocalID     string
	Token       string
	CustomerRef string
	InvoiceDate string // YYYY-MM-DD
	IsCredit    bool
	Lines       []InvoiceLineInput
}

// SyncBatch is one push payload
type SyncBatch struct {
	Customers []SyncCustomerInput
	Visits    []SyncVisitInput
	Invoices  []SyncInvoiceInput
}

// SyncMapping ties a client-local id to the server row it produced
type SyncMapping struct {
	LocalID  string    `json:"local_id"`
	ServerID uuid.UUID `json:"server_id"`
}

// FailedRecord describes one record the batch was rejected for
type FailedRecord struct {
	LocalID    string `json:"local_id"`
	RecordType string `json:"record_type"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// SyncResult is the push response: id mappings on success, the failure
// report when the batch was rolled back.
type SyncResult struct {
	Customers []SyncMapping  `json:"customers"`
	Visits    []SyncMapping  `json:"visits"`
	Invoices  []SyncMapping  `json:"invoices"`
	Failed    []FailedRecord `json:"failed_records,omitempty"`
}

// fallbackToken derives a deterministic token for clients that do not send
// one. Two uploads of the same record hash identically, so the dedup still
// holds.
func fallbackToken(tenantID uuid.UUID, recordType enum.SyncRecordType, customerRef, date, localID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%s", tenantID, recordType, customerRef, date, localID)))
	return hex.EncodeToString(sum[:])
}

// Push applies one batch atomically. On any record failure the transaction
// rolls back, nothing is kept, and the returned result names the failing
// records; the error is the first failure.
func (s *SyncService) Push(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, batch *SyncBatch) (*SyncResult, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}
	if max := s.cfg.MaxBatchSize; max > 0 {
		if len(batch.Customers) > max || len(batch.Visits) > max || len(batch.Invoices) > max {
			return nil, apperror.NewValidationMessage(fmt.Sprintf("Batch exceeds the %d record limit", max))
		}
	}

	result := &SyncResult{}
	// customer local id -> server id, for resolving refs in this batch
	customerByLocal := make(map[string]uuid.UUID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for i := range batch.Customers {
			serverID, err := s.applyCustomer(ctx, tc, bookerID, &batch.Customers[i])
			if err != nil {
				result.Failed = append(result.Failed, failedFrom(batch.Customers[i].LocalID, enum.SyncRecordCustomer, err))
				return err
			}
			customerByLocal[batch.Customers[i].LocalID] = serverID
			result.Customers = append(result.Customers, SyncMapping{LocalID: batch.Customers[i].LocalID, ServerID: serverID})
		}

		for i := range batch.Visits {
			serverID, err := s.applyVisit(ctx, tc, bookerID, &batch.Visits[i], customerByLocal)
			if err != nil {
				result.Failed = append(result.Failed, failedFrom(batch.Visits[i].LocalID, enum.SyncRecordVisit, err))
				return err
			}
			result.Visits = append(result.Visits, SyncMapping{LocalID: batch.Visits[i].LocalID, ServerID: serverID})
		}

		for i := range batch.Invoices {
			serverID, err := s.applyInvoice(ctx, tc, bookerID, &batch.Invoices[i], customerByLocal)
			if err != nil {
				result.Failed = append(result.Failed, failedFrom(batch.Invoices[i].LocalID, enum.SyncRecordInvoice, err))
				return err
			}
			result.Invoices = append(result.Invoices, SyncMapping{LocalID: batch.Invoices[i].LocalID, ServerID: serverID})
		}

		return nil
	})
	if err != nil {
		// Mappings collected before the failure were rolled back with it.
		result.Customers = nil
		result.Visits = nil
		result.Invoices = nil
		return result, err
	}

	return result, nil
}

func failedFrom(localID string, recordType enum.SyncRecordType, err error) FailedRecord {
	appErr := apperror.GetAppError(err)
	return FailedRecord{
		LocalID:    localID,
		RecordType: string(recordType),
		Kind:       string(appErr.Kind),
		Message:    appErr.Message,
	}
}

func (s *SyncService) applyCustomer(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, input *SyncCustomerInput) (uuid.UUID, error) {
	if input.Name == "" {
		return uuid.Nil, apperror.NewValidationMessage("Customer name is required")
	}

	token := input.Token
	if token == "" {
		token = fallbackToken(tc.ID, enum.SyncRecordCustomer, "", "", input.LocalID)
	}

	existing, err := s.syncRepo.Get(ctx, tc.ID, enum.SyncRecordCustomer, token)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ServerID, nil
	}

	customer := &entity.Customer{
		TenantID:  tc.ID,
		BookerID:  bookerID,
		Code:      utils.GenerateCustomerCode(),
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Channel:   input.Channel,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return uuid.Nil, err
	}

	if err := s.syncRepo.Create(ctx, &entity.SyncRecord{
		TenantID:   tc.ID,
		RecordType: enum.SyncRecordCustomer,
		Token:      token,
		ServerID:   customer.ID,
	}); err != nil {
		return uuid.Nil, translateDuplicate(err)
	}
	return customer.ID, nil
}

func (s *SyncService) applyVisit(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, input *SyncVisitInput, customerByLocal map[string]uuid.UUID) (uuid.UUID, error) {
	customerID, err := s.resolveCustomer(ctx, tc, input.CustomerRef, customerByLocal)
	if err != nil {
		return uuid.Nil, err
	}
	if input.CheckInAt.IsZero() {
		return uuid.Nil, apperror.NewValidationMessage("Visit check-in time is required")
	}

	token := input.Token
	if token == "" {
		token = fallbackToken(tc.ID, enum.SyncRecordVisit, input.CustomerRef,
			input.CheckInAt.Format(utils.DateLayout), input.LocalID)
	}

	existing, err := s.syncRepo.Get(ctx, tc.ID, enum.SyncRecordVisit, token)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ServerID, nil
	}

	visit := &entity.Visit{
		TenantID:    tc.ID,
		BookerID:    bookerID,
		CustomerID:  customerID,
		CheckInAt:   input.CheckInAt,
		CheckInLat:  input.CheckInLat,
		CheckInLng:  input.CheckInLng,
		CheckOutAt:  input.CheckOutAt,
		CheckOutLat: input.CheckOutLat,
		CheckOutLng: input.CheckOutLng,
		Notes:       input.Notes,
	}
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return uuid.Nil, err
	}

	if err := s.syncRepo.Create(ctx, &entity.SyncRecord{
		TenantID:   tc.ID,
		RecordType: enum.SyncRecordVisit,
		Token:      token,
		ServerID:   visit.ID,
	}); err != nil {
		return uuid.Nil, translateDuplicate(err)
	}
	return visit.ID, nil
}

func (s *SyncService) applyInvoice(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, input *SyncInvoiceInput, customerByLocal map[string]uuid.UUID) (uuid.UUID, error) {
	customerID, err := s.resolveCustomer(ctx, tc, input.CustomerRef, customerByLocal)
	if err != nil {
		return uuid.Nil, err
	}

	token := input.Token
	if token == "" {
		token = fallbackToken(tc.ID, enum.SyncRecordInvoice, input.CustomerRef, input.InvoiceDate, input.LocalID)
	}

	existing, err := s.syncRepo.Get(ctx, tc.ID, enum.SyncRecordInvoice, token)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ServerID, nil
	}

	invoice, err := s.invoices.CreateInvoice(ctx, tc, &CreateInvoiceInput{
		BookerID:    bookerID,
		CustomerID:  customerID,
		InvoiceDate: input.InvoiceDate,
		IsCredit:    input.IsCredit,
		Lines:       input.Lines,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.syncRepo.Create(ctx, &entity.SyncRecord{
		TenantID:   tc.ID,
		RecordType: enum.SyncRecordInvoice,
		Token:      token,
		ServerID:   invoice.ID,
	}); err != nil {
		return uuid.Nil, translateDuplicate(err)
	}
	return invoice.ID, nil
}

// resolveCustomer turns a batch-local customer reference into a server id:
// a local id mapped earlier in this batch, a server uuid, or the token a
// previous batch synced the customer under.
func (s *SyncService) resolveCustomer(ctx context.Context, tc entity.TenantContext, ref string, customerByLocal map[string]uuid.UUID) (uuid.UUID, error) {
	if ref == "" {
		return uuid.Nil, apperror.NewValidationMessage("Customer reference is required")
	}

	if id, ok := customerByLocal[ref]; ok {
		return id, nil
	}

	if id, err := uuid.Parse(ref); err == nil {
		customer, err := s.customerRepo.GetByID(ctx, tc, id)
		if err != nil {
			return uuid.Nil, err
		}
		if customer == nil {
			return uuid.Nil, apperror.NewNotFoundError("Customer")
		}
		return customer.ID, nil
	}

	record, err := s.syncRepo.Get(ctx, tc.ID, enum.SyncRecordCustomer, ref)
	if err != nil {
		return uuid.Nil, err
	}
	if record != nil {
		return record.ServerID, nil
	}

	return uuid.Nil, apperror.NewNotFoundError(fmt.Sprintf("Customer reference %q", ref))
}
