package repository

import (
	"context"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/google/uuid"
)

// SchemeRepository defines the interface for discount scheme data operations
type SchemeRepository interface {
	Create(ctx context.Context, scheme *entity.DiscountScheme) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountScheme, error)
	// ListCandidates returns active schemes visible to the tenant (its own
	// plus global) that target the product or its brand and are live on the
	// given date. Quantity-tier filtering and tie-breaking happen in the
	// matcher, not here.
	ListCandidates(ctx context.Context, tc entity.TenantContext, productID uuid.UUID, brandID *uuid.UUID, date time.Time) ([]entity.DiscountScheme, error)
	// ListActive returns all schemes live for the tenant on the given date
	ListActive(ctx context.Context, tc entity.TenantContext, date time.Time) ([]entity.DiscountScheme, error)
}
