package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatInvoiceNo(t *testing.T) {
	tests := []struct {
		prefix     string
		tenantCode string
		seq        int64
		want       string
	}{
		{"INV", "KHI01", 1, "INV-KHI01-000001"},
		{"INV", "khi01", 42, "INV-KHI01-000042"},
		{"SL", "LHR02", 1234567, "SL-LHR02-1234567"},
	}

	for _, tt := range tests {
		if got := FormatInvoiceNo(tt.prefix, tt.tenantCode, tt.seq); got != tt.want {
			t.Errorf("FormatInvoiceNo(%q, %q, %d) = %q, want %q", tt.prefix, tt.tenantCode, tt.seq, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != 9 || d.Day() != 1 {
		t.Errorf("ParseDate() = %v", d)
	}

	for _, bad := range []string{"01-09-2026", "2026/09/01", "yesterday", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("12.50")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("ParseAmount() = %s, want 12.50", got)
	}

	// Empty means zero, not an error.
	got, err = ParseAmount("")
	if err != nil || !got.IsZero() {
		t.Errorf("ParseAmount(\"\") = %s, %v, want 0, nil", got, err)
	}

	if _, err := ParseAmount("12,50"); err == nil {
		t.Error("ParseAmount with comma separator should fail")
	}
}

func TestGenerateCodes(t *testing.T) {
	receipt := GenerateReceiptNo()
	if !strings.HasPrefix(receipt, "GRN-") {
		t.Errorf("receipt no %q missing GRN prefix", receipt)
	}
	customer := GenerateCustomerCode()
	if !strings.HasPrefix(customer, "CUST-") {
		t.Errorf("customer code %q missing CUST prefix", customer)
	}
	if GenerateReceiptNo() == receipt {
		t.Error("receipt numbers should not repeat")
	}
}
