package service

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// TenantService resolves the tenant scope for each request and manages
// tenant records. Resolution fails closed: no valid tenant means an error,
// never an unscoped query.
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// Resolve determines the tenant scope for a principal. Regular users are
// pinned to their home tenant and any override naming a different tenant is
// rejected. Admins may override to any active tenant, or omit the override
// to act across all tenants.
func (s *TenantService) Resolve(ctx context.Context, principal entity.Principal, overrideTenantID *uuid.UUID) (entity.TenantContext, error) {
	if principal.Role == enum.RoleAdmin {
		if overrideTenantID == nil {
			return entity.AllTenantsContext(), nil
		}
		tenant, err := s.tenantRepo.GetByID(ctx, *overrideTenantID)
		if err != nil {
			return entity.TenantContext{}, err
		}
		if tenant == nil {
			return entity.TenantContext{}, apperror.NewNotFoundError("Tenant")
		}
		if tenant.Status != enum.TenantStatusActive {
			return entity.TenantContext{}, apperror.NewForbiddenError("Tenant is suspended")
		}
		return entity.TenantOf(tenant.ID), nil
	}

	if principal.HomeTenantID == nil {
		return entity.TenantContext{}, apperror.NewForbiddenError("User has no tenant assignment")
	}
	if overrideTenantID != nil && *overrideTenantID != *principal.HomeTenantID {
		return entity.TenantContext{}, apperror.NewForbiddenError("Cannot act on another tenant")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, *principal.HomeTenantID)
	if err != nil {
		return entity.TenantContext{}, err
	}
	if tenant == nil {
		return entity.TenantContext{}, apperror.NewNotFoundError("Tenant")
	}
	if tenant.Status != enum.TenantStatusActive {
		return entity.TenantContext{}, apperror.NewForbiddenError("Tenant is suspended")
	}

	return entity.TenantOf(tenant.ID), nil
}

// CreateTenantInput represents the create tenant input
type CreateTenantInput struct {
	Code string
	Name string
	City *string
}

// CreateTenant creates a new tenant
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	if input.Code == "" || input.Name == "" {
		return nil, apperror.NewValidationMessage("Code and name are required")
	}

	existing, err := s.tenantRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Tenant code already in use")
	}

	tenant := &entity.Tenant{
		Code:   input.Code,
		Name:   input.Name,
		City:   input.City,
		Status: enum.TenantStatusActive,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// ListTenants lists all tenants with pagination
func (s *TenantService) ListTenants(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Tenant], error) {
	tenants, total, err := s.tenantRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(tenants, pag), nil
}

// SetTenantStatus suspends or reactivates a tenant
func (s *TenantService) SetTenantStatus(ctx context.Context, id uuid.UUID, status enum.TenantStatus) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	tenant.Status = status
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
