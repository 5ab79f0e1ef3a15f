package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for date-only fields
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseAmount parses a decimal money string; empty means zero
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
