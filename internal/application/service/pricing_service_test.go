package service

import (
	"testing"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceLine(t *testing.T) {
	pricing := NewPricingService()

	product := &entity.Product{
		UnitPrice:      dec("100.00"),
		GSTRate:        dec("18"),
		FurtherTaxRate: dec("3"),
	}

	tests := []struct {
		name       string
		product    *entity.Product
		qty        int
		scheme     *entity.DiscountScheme
		gross      string
		discount   string
		gst        string
		furtherTax string
		total      string
		freeQty    int
	}{
		{
			name:       "no scheme",
			product:    product,
			qty:        10,
			gross:      "1000.00",
			discount:   "0",
			gst:        "180.00",
			furtherTax: "30.00",
			total:      "1210.00",
		},
		{
			name:    "amount less per unit",
			product: product,
			qty:     10,
			scheme: &entity.DiscountScheme{
				PayoutType: enum.PayoutAmountLess,
				AmountLess: dec("5.00"),
			},
			gross:      "1000.00",
			discount:   "50.00",
			gst:        "171.00", // 18% of 950
			furtherTax: "28.50",
			total:      "1149.50",
		},
		{
			name:    "discount capped at gross",
			product: product,
			qty:     2,
			scheme: &entity.DiscountScheme{
				PayoutType: enum.PayoutAmountLess,
				AmountLess: dec("150.00"),
			},
			gross:      "200.00",
			discount:   "200.00",
			gst:        "0.00",
			furtherTax: "0.00",
			total:      "0.00",
		},
		{
			name:    "free goods per tier multiple",
			product: product,
			qty:     25,
			scheme: &entity.DiscountScheme{
				PayoutType: enum.PayoutFreeGoods,
				FromQty:    10,
				FreeQty:    2,
			},
			gross:      "2500.00",
			discount:   "0",
			gst:        "450.00",
			furtherTax: "75.00",
			total:      "3025.00",
			freeQty:    4, // 25/10 = 2 multiples, 2 free each
		},
		{
			name:    "free goods below first tier",
			product: product,
			qty:     9,
			scheme: &entity.DiscountScheme{
				PayoutType: enum.PayoutFreeGoods,
				FromQty:    10,
				FreeQty:    2,
			},
			gross:      "900.00",
			discount:   "0",
			gst:        "162.00",
			furtherTax: "13.50",
			total:      "1075.50",
			freeQty:    0,
		},
		{
			name: "fractional price rounds half up",
			product: &entity.Product{
				UnitPrice:      dec("33.335"),
				GSTRate:        dec("17"),
				FurtherTaxRate: dec("0"),
			},
			qty:        3,
			gross:      "100.01", // 100.005 rounds up
			discount:   "0",
			gst:        "17.00",
			furtherTax: "0.00",
			total:      "117.01",
		},
		{
			name: "zero rate product",
			product: &entity.Product{
				UnitPrice: dec("50.00"),
			},
			qty:        4,
			gross:      "200.00",
			discount:   "0",
			gst:        "0.00",
			furtherTax: "0.00",
			total:      "200.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := pricing.PriceLine(tt.product, tt.qty, tt.scheme)
			if err != nil {
				t.Fatalf("PriceLine() error = %v", err)
			}
			assertDecimal(t, "gross", b.Gross, tt.gross)
			assertDecimal(t, "discount", b.Discount, tt.discount)
			assertDecimal(t, "gst", b.GSTAmount, tt.gst)
			assertDecimal(t, "further tax", b.FurtherTax, tt.furtherTax)
			assertDecimal(t, "total", b.Total, tt.total)
			if b.FreeQty != tt.freeQty {
				t.Errorf("free qty = %d, want %d", b.FreeQty, tt.freeQty)
			}
		})
	}
}

func TestPriceLineInvalidQuantity(t *testing.T) {
	pricing := NewPricingService()
	product := &entity.Product{UnitPrice: dec("10.00")}

	for _, qty := range []int{0, -1} {
		_, err := pricing.PriceLine(product, qty, nil)
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("PriceLine(qty=%d) error = %v, want validation error", qty, err)
		}
	}
}

// Equal inputs must always price identically; the invariant the whole
// engine leans on.
func TestPriceLineDeterministic(t *testing.T) {
	pricing := NewPricingService()
	product := &entity.Product{
		UnitPrice:      dec("123.45"),
		GSTRate:        dec("18"),
		FurtherTaxRate: dec("3"),
	}
	scheme := &entity.DiscountScheme{
		PayoutType: enum.PayoutAmountLess,
		AmountLess: dec("7.89"),
	}

	first, err := pricing.PriceLine(product, 17, scheme)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := pricing.PriceLine(product, 17, scheme)
		if err != nil {
			t.Fatal(err)
		}
		if !again.Total.Equal(first.Total) || !again.Discount.Equal(first.Discount) {
			t.Fatalf("run %d priced differently: %v vs %v", i, again, first)
		}
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
