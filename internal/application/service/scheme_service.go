package service

import (
	"context"
	"sort"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchemeService matches discount schemes to invoice lines and manages
// scheme records.
type SchemeService struct {
	schemeRepo  repository.SchemeRepository
	productRepo repository.ProductRepository
}

// NewSchemeService creates a new scheme service
func NewSchemeService(schemeRepo repository.SchemeRepository, productRepo repository.ProductRepository) *SchemeService {
	return &SchemeService{schemeRepo: schemeRepo, productRepo: productRepo}
}

// Match returns the single best scheme for the product/quantity/date, or
// nil when no scheme applies.
func (s *SchemeService) Match(ctx context.Context, tc entity.TenantContext, product *entity.Product, qty int, date time.Time) (*entity.DiscountScheme, error) {
	candidates, err := s.schemeRepo.ListCandidates(ctx, tc, product.ID, product.BrandID, date)
	if err != nil {
		return nil, err
	}
	return BestMatch(candidates, product.ID, qty), nil
}

// BestMatch picks the winning scheme from candidates already filtered by
// status, visibility, date range and product/brand target. The quantity
// tier is checked here, then the tie-break: product-level beats
// brand-level, then larger payout, then newest, then highest id. The
// ordering is total, so the result never depends on storage order.
func BestMatch(candidates []entity.DiscountScheme, productID uuid.UUID, qty int) *entity.DiscountScheme {
	eligible := make([]entity.DiscountScheme, 0, len(candidates))
	for _, c := range candidates {
		if qty < c.FromQty {
			continue
		}
		if c.ToQty != nil && qty > *c.ToQty {
			continue
		}
		if c.ProductID != nil && *c.ProductID != productID {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := &eligible[i], &eligible[j]
		if a.IsProductLevel() != b.IsProductLevel() {
			return a.IsProductLevel()
		}
		av, bv := a.PayoutValue(), b.PayoutValue()
		if !av.Equal(bv) {
			return av.GreaterThan(bv)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})

	return &eligible[0]
}

// ListActive returns the schemes live for the tenant on the given date
func (s *SchemeService) ListActive(ctx context.Context, tc entity.TenantContext, date time.Time) ([]entity.DiscountScheme, error) {
	return s.schemeRepo.ListActive(ctx, tc, date)
}

// CreateSchemeInput represents the create scheme input
type CreateSchemeInput struct {
	TenantID      *uuid.UUID
	ProductID     *uuid.UUID
	BrandID       *uuid.UUID
	Name          string
	StartDate     time.Time
	EndDate       time.Time
	FromQty       int
	ToQty         *int
	PayoutType    enum.PayoutType
	AmountLess    string
	FreeProductID *uuid.UUID
	FreeQty       int
}

// CreateScheme creates a new discount scheme
func (s *SchemeService) CreateScheme(ctx context.Context, input *CreateSchemeInput) (*entity.DiscountScheme, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationMessage("Scheme name is required")
	}
	if input.ProductID == nil && input.BrandID == nil {
		return nil, apperror.NewValidationMessage("Scheme must target a product or a brand")
	}
	if input.ProductID != nil && input.BrandID != nil {
		return nil, apperror.NewValidationMessage("Scheme cannot target both a product and a brand")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperror.NewValidationMessage("End date must not precede start date")
	}
	if input.FromQty < 1 {
		return nil, apperror.NewValidationMessage("From quantity must be at least 1")
	}
	if input.ToQty != nil && *input.ToQty < input.FromQty {
		return nil, apperror.NewValidationMessage("To quantity must not be below from quantity")
	}

	if input.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}
	}
	if input.FreeProductID != nil {
		free, err := s.productRepo.GetByID(ctx, *input.FreeProductID)
		if err != nil {
			return nil, err
		}
		if free == nil {
			return nil, apperror.NewNotFoundError("Free product")
		}
	}

	scheme := &entity.DiscountScheme{
		TenantID:      input.TenantID,
		ProductID:     input.ProductID,
		BrandID:       input.BrandID,
		Name:          input.Name,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		FromQty:       input.FromQty,
		ToQty:         input.ToQty,
		PayoutType:    input.PayoutType,
		FreeProductID: input.FreeProductID,
		FreeQty:       input.FreeQty,
		Status:        enum.SchemeStatusActive,
	}

	if input.PayoutType == enum.PayoutAmountLess {
		amount, err := decimal.NewFromString(input.AmountLess)
		if err != nil {
			return nil, apperror.NewValidationMessage("Invalid amount_less value")
		}
		if amount.IsNegative() {
			return nil, apperror.NewValidationMessage("amount_less must not be negative")
		}
		scheme.AmountLess = amount
	} else if input.FreeQty < 1 {
		return nil, apperror.NewValidationMessage("Free quantity must be at least 1 for free-goods schemes")
	}

	if err := s.schemeRepo.Create(ctx, scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}
