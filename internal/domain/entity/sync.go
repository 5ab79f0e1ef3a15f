package entity

import (
	"time"

	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRecord maps one client-local record token to the server row it
// produced. A replayed batch resolves its tokens here instead of creating
// anything, which is what makes sync push idempotent at record granularity.
type SyncRecord struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_sync_tenant_type_token,priority:1"`
	RecordType enum.SyncRecordType `gorm:"size:20;not null;uniqueIndex:idx_sync_tenant_type_token,priority:2"`
	Token      string              `gorm:"size:128;not null;uniqueIndex:idx_sync_tenant_type_token,priority:3"`
	ServerID   uuid.UUID           `gorm:"type:uuid;not null"`
	CreatedAt  time.Time           `gorm:"autoCreateTime"`
}

// BeforeCreate generates a UUID before creating a new sync record
func (s *SyncRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SyncRecord model
func (SyncRecord) TableName() string {
	return "sync_records"
}
