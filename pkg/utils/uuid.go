package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatInvoiceNo builds a tenant-scoped invoice number from the allocated
// sequence value, e.g. "INV-KHI01-000042".
func FormatInvoiceNo(prefix, tenantCode string, seq int64) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, strings.ToUpper(tenantCode), seq)
}

// GenerateReceiptNo generates a unique stock receipt number
func GenerateReceiptNo() string {
	return "GRN-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateCustomerCode generates a unique customer code
func GenerateCustomerCode() string {
	return "CUST-" + strings.ToUpper(uuid.New().String()[:8])
}
