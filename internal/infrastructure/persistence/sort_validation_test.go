package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"asc lowercase", "asc", "ASC"},
		{"ASC uppercase", "ASC", "ASC"},
		{"asc with spaces", "  asc  ", "ASC"},
		{"desc lowercase", "desc", "DESC"},
		{"DESC uppercase", "DESC", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"garbage defaults to DESC", "ASC; DROP TABLE payroll_ledgers", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"allowed field", "net_pay", PayrollLedgerSortFields, "net_pay"},
		{"disallowed field", "secret_column", PayrollLedgerSortFields, "created_at"},
		{"empty defaults", "", PayrollLedgerSortFields, "created_at"},
		{"injection attempt", "net_pay; DELETE FROM payroll_ledgers", PayrollLedgerSortFields, "created_at"},
		{"period field", "start_date", PayrollPeriodSortFields, "start_date"},
		{"component field", "calculation_order", SalaryComponentSortFields, "calculation_order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}
