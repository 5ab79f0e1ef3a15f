package repository

import (
	"context"
	"errors"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).Preload("Brand").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.BrandID != nil {
		query = query.Where("brand_id = ?", *params.BrandID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "name"
	sortOrder := "ASC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "DESC" || params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Brand").
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).Preload("Brand").Order("code ASC").Find(&products).Error
	return products, err
}

type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new brand repository
func NewBrandRepository(db *gorm.DB) domainRepo.BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *entity.Brand) error {
	return conn(ctx, r.db).Create(brand).Error
}

func (r *brandRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Brand, error) {
	var brand entity.Brand
	err := conn(ctx, r.db).First(&brand, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &brand, err
}

func (r *brandRepository) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	var brand entity.Brand
	err := conn(ctx, r.db).First(&brand, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &brand, err
}

func (r *brandRepository) ListAll(ctx context.Context) ([]entity.Brand, error) {
	var brands []entity.Brand
	err := conn(ctx, r.db).Order("name ASC").Find(&brands).Error
	return brands, err
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *gorm.DB) domainRepo.ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) Get(ctx context.Context, refType, value string) (*entity.Reference, error) {
	var ref entity.Reference
	err := conn(ctx, r.db).First(&ref, "type = ? AND value = ?", refType, value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ref, err
}

func (r *referenceRepository) Create(ctx context.Context, ref *entity.Reference) error {
	return conn(ctx, r.db).Create(ref).Error
}

func (r *referenceRepository) ListByType(ctx context.Context, refType string) ([]entity.Reference, error) {
	var refs []entity.Reference
	err := conn(ctx, r.db).Where("type = ?", refType).Order("value ASC").Find(&refs).Error
	return refs, err
}

func (r *referenceRepository) ListAll(ctx context.Context) ([]entity.Reference, error) {
	var refs []entity.Reference
	err := conn(ctx, r.db).Order("type ASC, value ASC").Find(&refs).Error
	return refs, err
}
