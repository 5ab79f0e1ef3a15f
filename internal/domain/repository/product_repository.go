package repository

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog data operations.
// Products are global, so there is no tenant argument here; tenant scoping
// applies to stock, not the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListAll(ctx context.Context) ([]entity.Product, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	BrandID    *uuid.UUID
	SortBy     string
	SortOrder  string
}

// BrandRepository defines the interface for brand data operations
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	ListAll(ctx context.Context) ([]entity.Brand, error)
}

// ReferenceRepository defines the interface for shared lookup rows.
// Get/Create back the idempotent find-or-create operation; a concurrent
// create loses to the unique index and re-reads.
type ReferenceRepository interface {
	Get(ctx context.Context, refType, value string) (*entity.Reference, error)
	Create(ctx context.Context, ref *entity.Reference) error
	ListByType(ctx context.Context, refType string) ([]entity.Reference, error)
	ListAll(ctx context.Context) ([]entity.Reference, error)
}
