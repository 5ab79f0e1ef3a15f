package service

import (
	"context"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/google/uuid"
)

// MasterDataService assembles the read-only snapshot the mobile app pulls
// before going offline: catalog with on-hand stock, the booker's customers,
// live schemes, the current month's target and the shared lookups.
type MasterDataService struct {
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	schemeRepo    repository.SchemeRepository
	targetRepo    repository.TargetRepository
	referenceRepo repository.ReferenceRepository
	stock         *StockService
}

// NewMasterDataService creates a new master data service
func NewMasterDataService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	schemeRepo repository.SchemeRepository,
	targetRepo repository.TargetRepository,
	referenceRepo repository.ReferenceRepository,
	stock *StockService,
) *MasterDataService {
	return &MasterDataService{
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		schemeRepo:    schemeRepo,
		targetRepo:    targetRepo,
		referenceRepo: referenceRepo,
		stock:         stock,
	}
}

// ProductWithStock is a catalog row with the tenant's remaining quantity
type ProductWithStock struct {
	entity.Product
	OnHand int `json:"on_hand"`
}

// MasterData is the full pull payload
type MasterData struct {
	Products   []ProductWithStock      `json:"products"`
	Customers  []entity.Customer       `json:"customers"`
	Schemes    []entity.DiscountScheme `json:"schemes"`
	Target     *entity.Target          `json:"target,omitempty"`
	References []entity.Reference      `json:"references"`
	PulledAt   time.Time               `json:"pulled_at"`
}

// Snapshot builds the master-data payload for one booker
func (s *MasterDataService) Snapshot(ctx context.Context, tc entity.TenantContext, bookerID uuid.UUID) (*MasterData, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}

	now := time.Now()

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	onHand, err := s.stock.OnHand(ctx, tc)
	if err != nil {
		return nil, err
	}
	withStock := make([]ProductWithStock, 0, len(products))
	for i := range products {
		withStock = append(withStock, ProductWithStock{
			Product: products[i],
			OnHand:  onHand[products[i].ID],
		})
	}

	customers, err := s.customerRepo.ListByBooker(ctx, tc, bookerID)
	if err != nil {
		return nil, err
	}

	schemes, err := s.schemeRepo.ListActive(ctx, tc, now)
	if err != nil {
		return nil, err
	}

	target, err := s.targetRepo.GetForMonth(ctx, tc, bookerID, now.Format("2006-01"))
	if err != nil {
		return nil, err
	}

	references, err := s.referenceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &MasterData{
		Products:   withStock,
		Customers:  customers,
		Schemes:    schemes,
		Target:     target,
		References: references,
		PulledAt:   now,
	}, nil
}
