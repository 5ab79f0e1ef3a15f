package service

import (
	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the priced result for one invoice line. Every amount is
// rounded to 2 places; Total = Gross - Discount + GSTAmount + FurtherTax.
type Breakdown struct {
	Gross      decimal.Decimal
	Discount   decimal.Decimal
	GSTAmount  decimal.Decimal
	FurtherTax decimal.Decimal
	Total      decimal.Decimal
	FreeQty    int
}

// PricingService computes line amounts. The computation order is fixed:
// gross, then scheme discount off gross, then taxes on the discounted base
// using the rates stored on the product. Half-up rounding to 2 places after
// each step, the same rule everywhere, so two lines with equal inputs can
// never price differently.
type PricingService struct{}

// NewPricingService creates a new pricing service
func NewPricingService() *PricingService {
	return &PricingService{}
}

// PriceLine prices qty pieces of the product, applying the matched scheme
// if one is given. A nil scheme means no discount and no free goods.
func (s *PricingService) PriceLine(product *entity.Product, qty int, scheme *entity.DiscountScheme) (*Breakdown, error) {
	if qty <= 0 {
		return nil, apperror.NewValidationMessage("Quantity must be greater than zero")
	}

	qtyDec := decimal.NewFromInt(int64(qty))
	gross := product.UnitPrice.Mul(qtyDec).Round(2)

	discount := decimal.Zero
	freeQty := 0
	if scheme != nil {
		switch scheme.PayoutType {
		case enum.PayoutAmountLess:
			discount = scheme.AmountLess.Mul(qtyDec).Round(2)
			if discount.GreaterThan(gross) {
				discount = gross
			}
		case enum.PayoutFreeGoods:
			if scheme.FromQty > 0 {
				freeQty = (qty / scheme.FromQty) * scheme.FreeQty
			}
		}
	}

	base := gross.Sub(discount)
	gst := base.Mul(product.GSTRate).Div(hundred).Round(2)
	furtherTax := base.Mul(product.FurtherTaxRate).Div(hundred).Round(2)
	total := base.Add(gst).Add(furtherTax).Round(2)

	return &Breakdown{
		Gross:      gross,
		Discount:   discount,
		GSTAmount:  gst,
		FurtherTax: furtherTax,
		Total:      total,
		FreeQty:    freeQty,
	}, nil
}
