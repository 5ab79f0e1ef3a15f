package enum

// ReceiptStatus represents the approval state of a stock receipt
type ReceiptStatus int

const (
	ReceiptStatusPending ReceiptStatus = iota
	ReceiptStatusApproved
)

// String returns the string representation of the receipt status
func (s ReceiptStatus) String() string {
	switch s {
	case ReceiptStatusPending:
		return "pending"
	case ReceiptStatusApproved:
		return "approved"
	default:
		return "unknown"
	}
}
