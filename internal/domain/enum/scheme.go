package enum

// SchemeStatus represents whether a discount scheme is live
type SchemeStatus int

const (
	SchemeStatusInactive SchemeStatus = iota
	SchemeStatusActive
)

// String returns the string representation of the scheme status
func (s SchemeStatus) String() string {
	switch s {
	case SchemeStatusActive:
		return "active"
	case SchemeStatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// PayoutType represents how a matched scheme pays out
type PayoutType int

const (
	// PayoutAmountLess discounts a fixed amount per unit sold.
	PayoutAmountLess PayoutType = iota
	// PayoutFreeGoods grants free pieces per tier multiple.
	PayoutFreeGoods
)

// String returns the string representation of the payout type
func (p PayoutType) String() string {
	switch p {
	case PayoutAmountLess:
		return "amount_less"
	case PayoutFreeGoods:
		return "free_goods"
	default:
		return "unknown"
	}
}
