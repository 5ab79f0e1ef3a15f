package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/google/uuid"
)

func amountLessScheme(name string, productID, brandID *uuid.UUID, fromQty int, toQty *int, amount string) entity.DiscountScheme {
	return entity.DiscountScheme{
		ID:         uuid.New(),
		ProductID:  productID,
		BrandID:    brandID,
		Name:       name,
		FromQty:    fromQty,
		ToQty:      toQty,
		PayoutType: enum.PayoutAmountLess,
		AmountLess: dec(amount),
		Status:     enum.SchemeStatusActive,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBestMatchTiers(t *testing.T) {
	productID := uuid.New()
	ten := 10

	scheme := amountLessScheme("tier 5-10", &productID, nil, 5, &ten, "2.00")
	candidates := []entity.DiscountScheme{scheme}

	tests := []struct {
		name string
		qty  int
		want bool
	}{
		{"below from_qty", 4, false},
		{"at from_qty", 5, true},
		{"inside tier", 7, true},
		{"at to_qty", 10, true},
		{"above to_qty", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestMatch(candidates, productID, tt.qty)
			if (got != nil) != tt.want {
				t.Errorf("BestMatch(qty=%d) = %v, want match=%v", tt.qty, got, tt.want)
			}
		})
	}
}

func TestBestMatchOpenEndedTier(t *testing.T) {
	productID := uuid.New()
	scheme := amountLessScheme("open tier", &productID, nil, 12, nil, "1.00")

	if got := BestMatch([]entity.DiscountScheme{scheme}, productID, 10000); got == nil {
		t.Error("nil to_qty should match any quantity at or above from_qty")
	}
}

func TestBestMatchProductBeatsBrand(t *testing.T) {
	productID := uuid.New()
	brandID := uuid.New()

	// Brand scheme pays more, product scheme still wins.
	product := amountLessScheme("product", &productID, nil, 1, nil, "1.00")
	brand := amountLessScheme("brand", nil, &brandID, 1, nil, "50.00")

	got := BestMatch([]entity.DiscountScheme{brand, product}, productID, 10)
	if got == nil || got.ID != product.ID {
		t.Errorf("BestMatch() = %v, want product-level scheme", got)
	}
}

func TestBestMatchHigherPayoutWins(t *testing.T) {
	productID := uuid.New()
	small := amountLessScheme("small", &productID, nil, 1, nil, "2.00")
	big := amountLessScheme("big", &productID, nil, 1, nil, "5.00")

	got := BestMatch([]entity.DiscountScheme{small, big}, productID, 10)
	if got == nil || got.ID != big.ID {
		t.Errorf("BestMatch() = %v, want higher payout scheme", got)
	}
}

func TestBestMatchNewerWinsOnEqualPayout(t *testing.T) {
	productID := uuid.New()
	older := amountLessScheme("older", &productID, nil, 1, nil, "3.00")
	newer := amountLessScheme("newer", &productID, nil, 1, nil, "3.00")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	got := BestMatch([]entity.DiscountScheme{older, newer}, productID, 10)
	if got == nil || got.ID != newer.ID {
		t.Errorf("BestMatch() = %v, want newer scheme", got)
	}
}

// The tie-break ordering is total, so shuffling the candidate slice must
// never change the winner.
func TestBestMatchOrderIndependent(t *testing.T) {
	productID := uuid.New()
	brandID := uuid.New()

	candidates := []entity.DiscountScheme{
		amountLessScheme("a", &productID, nil, 1, nil, "3.00"),
		amountLessScheme("b", &productID, nil, 1, nil, "3.00"),
		amountLessScheme("c", nil, &brandID, 1, nil, "9.00"),
		amountLessScheme("d", &productID, nil, 1, nil, "1.50"),
	}

	first := BestMatch(candidates, productID, 10)
	if first == nil {
		t.Fatal("expected a match")
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]entity.DiscountScheme, len(candidates))
		copy(shuffled, candidates)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := BestMatch(shuffled, productID, 10)
		if got == nil || got.ID != first.ID {
			t.Fatalf("shuffle %d picked %v, first pick was %s", i, got, first.ID)
		}
	}
}

func TestBestMatchNoCandidates(t *testing.T) {
	if got := BestMatch(nil, uuid.New(), 5); got != nil {
		t.Errorf("BestMatch(nil) = %v, want nil", got)
	}
}

func TestBestMatchFreeGoodsPayoutValue(t *testing.T) {
	productID := uuid.New()

	free := entity.DiscountScheme{
		ID:         uuid.New(),
		ProductID:  &productID,
		PayoutType: enum.PayoutFreeGoods,
		FromQty:    1,
		FreeQty:    10,
		Status:     enum.SchemeStatusActive,
	}
	amount := amountLessScheme("amount", &productID, nil, 1, nil, "4.00")

	got := BestMatch([]entity.DiscountScheme{amount, free}, productID, 10)
	if got == nil || got.ID != free.ID {
		t.Errorf("BestMatch() = %v, want free-goods scheme with larger payout value", got)
	}
}

func TestCreateSchemeValidation(t *testing.T) {
	productID := uuid.New()
	brandID := uuid.New()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	three := 3

	productRepo := &fakeProductRepo{}
	productRepo.products = append(productRepo.products, entity.Product{ID: productID})
	svc := NewSchemeService(&fakeSchemeRepo{}, productRepo)

	tests := []struct {
		name  string
		input CreateSchemeInput
	}{
		{"missing name", CreateSchemeInput{ProductID: &productID, StartDate: start, EndDate: end, FromQty: 1}},
		{"no target", CreateSchemeInput{Name: "s", StartDate: start, EndDate: end, FromQty: 1}},
		{"both targets", CreateSchemeInput{Name: "s", ProductID: &productID, BrandID: &brandID, StartDate: start, EndDate: end, FromQty: 1}},
		{"end before start", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: end, EndDate: start, FromQty: 1}},
		{"zero from_qty", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: start, EndDate: end, FromQty: 0}},
		{"to_qty below from_qty", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: start, EndDate: end, FromQty: 5, ToQty: &three}},
		{"bad amount", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: start, EndDate: end, FromQty: 1, PayoutType: enum.PayoutAmountLess, AmountLess: "abc"}},
		{"negative amount", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: start, EndDate: end, FromQty: 1, PayoutType: enum.PayoutAmountLess, AmountLess: "-1.00"}},
		{"free goods without free_qty", CreateSchemeInput{Name: "s", ProductID: &productID, StartDate: start, EndDate: end, FromQty: 1, PayoutType: enum.PayoutFreeGoods}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateScheme(context.Background(), &tt.input)
			if !apperror.IsKind(err, apperror.KindValidation) {
				t.Errorf("CreateScheme() error = %v, want validation error", err)
			}
		})
	}
}

func TestCreateSchemeUnknownProduct(t *testing.T) {
	productID := uuid.New()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	svc := NewSchemeService(&fakeSchemeRepo{}, &fakeProductRepo{})
	_, err := svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name:       "s",
		ProductID:  &productID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
		FromQty:    1,
		PayoutType: enum.PayoutAmountLess,
		AmountLess: "1.00",
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("CreateScheme() error = %v, want not found", err)
	}
}

func TestCreateSchemeUnknownFreeProduct(t *testing.T) {
	productID := uuid.New()
	missingID := uuid.New()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	svc := NewSchemeService(&fakeSchemeRepo{}, &fakeProductRepo{products: []entity.Product{{ID: productID}}})
	_, err := svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name:          "s",
		ProductID:     &productID,
		StartDate:     start,
		EndDate:       start.AddDate(0, 1, 0),
		FromQty:       10,
		PayoutType:    enum.PayoutFreeGoods,
		FreeProductID: &missingID,
		FreeQty:       2,
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("CreateScheme() error = %v, want not found", err)
	}
}

func TestCreateSchemeActive(t *testing.T) {
	productID := uuid.New()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	productRepo := &fakeProductRepo{products: []entity.Product{{ID: productID}}}
	repo := &fakeSchemeRepo{}
	svc := NewSchemeService(repo, productRepo)

	scheme, err := svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name:       "monsoon promo",
		ProductID:  &productID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
		FromQty:    5,
		PayoutType: enum.PayoutAmountLess,
		AmountLess: "2.50",
	})
	if err != nil {
		t.Fatalf("CreateScheme() error = %v", err)
	}
	if scheme.Status != enum.SchemeStatusActive {
		t.Errorf("status = %v, want active", scheme.Status)
	}
	if !scheme.AmountLess.Equal(dec("2.50")) {
		t.Errorf("amount_less = %s, want 2.50", scheme.AmountLess)
	}
	if len(repo.schemes) != 1 {
		t.Errorf("persisted %d schemes, want 1", len(repo.schemes))
	}
}
