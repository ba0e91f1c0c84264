package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PayrollLedgerSortFields contains allowed sort fields for payroll ledgers
var PayrollLedgerSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"employee_id": true,
	"period_id":   true,
	"status":      true,
	"gross_pay":   true,
	"net_pay":     true,
	"approved_at": true,
	"paid_at":     true,
}

// PayrollPeriodSortFields contains allowed sort fields for payroll periods
var PayrollPeriodSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"start_date": true,
	"end_date":   true,
	"pay_date":   true,
	"status":     true,
}

// SalaryComponentSortFields contains allowed sort fields for salary components
var SalaryComponentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"type":              true,
	"calculation_order": true,
	"is_active":         true,
}

// PayrollAuditSortFields contains allowed sort fields for audit entries
var PayrollAuditSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"ledger_id":  true,
	"action":     true,
	"actor_id":   true,
}
