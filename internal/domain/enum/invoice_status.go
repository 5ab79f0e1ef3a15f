package enum

// InvoiceStatus represents the posting state of an invoice
type InvoiceStatus int

const (
	InvoiceStatusPosted InvoiceStatus = iota
	InvoiceStatusVoided
)

// String returns the string representation of the invoice status
func (s InvoiceStatus) String() string {
	switch s {
	case InvoiceStatusPosted:
		return "posted"
	case InvoiceStatusVoided:
		return "voided"
	default:
		return "unknown"
	}
}
