package service

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/google/uuid"
)

// CustomerService manages retail outlets
type CustomerService struct {
	customerRepo  repository.CustomerRepository
	referenceRepo repository.ReferenceRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, referenceRepo repository.ReferenceRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, referenceRepo: referenceRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	BookerID  uuid.UUID
	Name      string
	Phone     *string
	Address   *string
	Channel   *string
	Latitude  *float64
	Longitude *float64
}

// CreateCustomer creates a new customer in the tenant's book. The channel,
// if given, is registered as a shared lookup so pulls stay consistent.
func (s *CustomerService) CreateCustomer(ctx context.Context, tc entity.TenantContext, input *CreateCustomerInput) (*entity.Customer, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}
	if input.Name == "" {
		return nil, apperror.NewValidationMessage("Customer name is required")
	}

	if input.Channel != nil && *input.Channel != "" {
		if _, err := FindOrCreateReference(ctx, s.referenceRepo, "customer_channel", *input.Channel); err != nil {
			return nil, err
		}
	}

	customer := &entity.Customer{
		TenantID:  tc.ID,
		BookerID:  input.BookerID,
		Code:      utils.GenerateCustomerCode(),
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Channel:   input.Channel,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, tc, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
