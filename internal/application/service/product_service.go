package service

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductService reads the shared catalog
type ProductService struct {
	productRepo repository.ProductRepository
	brandRepo   repository.BrandRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, brandRepo repository.BrandRepository) *ProductService {
	return &ProductService{productRepo: productRepo, brandRepo: brandRepo}
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListBrands lists all brands
func (s *ProductService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return s.brandRepo.ListAll(ctx)
}
