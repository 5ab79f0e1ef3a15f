package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type schemeRepository struct {
	db *gorm.DB
}

// NewSchemeRepository creates a new scheme repository
func NewSchemeRepository(db *gorm.DB) domainRepo.SchemeRepository {
	return &schemeRepository{db: db}
}

func (r *schemeRepository) Create(ctx context.Context, scheme *entity.DiscountScheme) error {
	return conn(ctx, r.db).Create(scheme).Error
}

func (r *schemeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountScheme, error) {
	var scheme entity.DiscountScheme
	err := conn(ctx, r.db).First(&scheme, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &scheme, err
}

// schemeVisibility scopes schemes to the tenant's own rows plus global
// rows. Schemes are the one entity where a nil tenant means shared, so the
// plain TenantScope does not apply here.
func schemeVisibility(tc entity.TenantContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tc.AllTenants {
			return db
		}
		if tc.IsEmpty() {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id IS NULL OR tenant_id = ?", tc.ID)
	}
}

func (r *schemeRepository) ListCandidates(ctx context.Context, tc entity.TenantContext, productID uuid.UUID, brandID *uuid.UUID, date time.Time) ([]entity.DiscountScheme, error) {
	var schemes []entity.DiscountScheme

	query := conn(ctx, r.db).
		Scopes(schemeVisibility(tc)).
		Where("status = ?", enum.SchemeStatusActive).
		Where("start_date <= ?::date AND end_date >= ?::date", date, date)

	if brandID != nil {
		query = query.Where("product_id = ? OR brand_id = ?", productID, *brandID)
	} else {
		query = query.Where("product_id = ?", productID)
	}

	err := query.Order("created_at DESC").Find(&schemes).Error
	return schemes, err
}

func (r *schemeRepository) ListActive(ctx context.Context, tc entity.TenantContext, date time.Time) ([]entity.DiscountScheme, error) {
	var schemes []entity.DiscountScheme
	err := conn(ctx, r.db).
		Scopes(schemeVisibility(tc)).
		Where("status = ?", enum.SchemeStatusActive).
		Where("start_date <= ?::date AND end_date >= ?::date", date, date).
		Preload("Product").
		Preload("Brand").
		Order("created_at DESC").
		Find(&schemes).Error
	return schemes, err
}
