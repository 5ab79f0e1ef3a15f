package repository

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	ListByBooker(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID) ([]entity.Customer, error)
}

// VisitRepository defines the interface for visit data operations
type VisitRepository interface {
	Create(ctx context.Context, visit *entity.Visit) error
	GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Visit, error)
	Update(ctx context.Context, visit *entity.Visit) error
	List(ctx context.Context, tc entity.TenantContext, bookerID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Visit, int64, error)
}
