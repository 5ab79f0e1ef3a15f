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
	"gorm.io/gorm/clause"
)

type syncRepository struct {
	db *gorm.DB
}

// NewSyncRepository creates a new sync record repository
func NewSyncRepository(db *gorm.DB) domainRepo.SyncRepository {
	return &syncRepository{db: db}
}

func (r *syncRepository) Get(ctx context.Context, tenantID uuid.UUID, recordType enum.SyncRecordType, token string) (*entity.SyncRecord, error) {
	var record entity.SyncRecord
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND record_type = ? AND token = ?", tenantID, recordType, token).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *syncRepository) Create(ctx context.Context, record *entity.SyncRecord) error {
	return conn(ctx, r.db).Create(record).Error
}

type targetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(db *gorm.DB) domainRepo.TargetRepository {
	return &targetRepository{db: db}
}

func (r *targetRepository) Upsert(ctx context.Context, target *entity.Target) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "booker_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(target).Error
}

func (r *targetRepository) GetForMonth(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, month string) (*entity.Target, error) {
	var target entity.Target
	err := conn(ctx, r.db).Scopes(TenantScope(tc)).
		Where("booker_id = ? AND month = ?", bookerID, month).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &target, err
}

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency key repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where("key = ? AND user_id = ? AND expires_at > ?", key, userID, time.Now()).
		First(&ikey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return conn(ctx, r.db).Create(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return conn(ctx, r.db).
		Where("expires_at <= ?", time.Now()).
		Delete(&entity.IdempotencyKey{}).Error
}
