package repository

import (
	"context"
	"errors"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) List(ctx context.Context, tc entity.TenantContext, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(tc))

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR phone ILIKE ?", searchTerm, searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) ListByBooker(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Where("booker_id = ?", bookerID).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *gorm.DB) domainRepo.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *entity.Visit) error {
	return conn(ctx, r.db).Create(visit).Error
}

func (r *visitRepository) GetByID(ctx context.Context, tc entity.TenantContext, id uuid.UUID) (*entity.Visit, error) {
	var visit entity.Visit
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Preload("Customer").
		First(&visit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &visit, err
}

func (r *visitRepository) Update(ctx context.Context, visit *entity.Visit) error {
	return conn(ctx, r.db).Save(visit).Error
}

func (r *visitRepository) List(ctx context.Context, tc entity.TenantContext, bookerID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Visit, int64, error) {
	var visits []entity.Visit
	var total int64

	query := conn(ctx, r.db).Model(&entity.Visit{}).Scopes(TenantScope(tc))

	if bookerID != nil {
		query = query.Where("booker_id = ?", *bookerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("check_in_at DESC").
		Find(&visits).Error

	return visits, total, err
}
