package repository

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
)

// SyncRepository defines the interface for per-record sync idempotency
// tokens
type SyncRepository interface {
	// Get returns the mapping for a token if the record was applied before
	Get(ctx context.Context, tenantID uuid.UUID, recordType enum.SyncRecordType, token string) (*entity.SyncRecord, error)
	Create(ctx context.Context, record *entity.SyncRecord) error
}

// TargetRepository defines the interface for monthly sales targets
type TargetRepository interface {
	Upsert(ctx context.Context, target *entity.Target) error
	GetForMonth(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID, month string) (*entity.Target, error)
}

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
