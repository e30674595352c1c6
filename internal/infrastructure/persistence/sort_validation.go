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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// InvoiceSortFields contains allowed sort fields for sales invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"customer_name":  true,
	"issue_date":     true,
	"due_date":       true,
	"status":         true,
	"subtotal":       true,
	"total_tax":      true,
	"total_amount":   true,
	"amount_paid":    true,
	"finalized_at":   true,
}

// BillSortFields contains allowed sort fields for purchase bills
var BillSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"bill_number":          true,
	"supplier_bill_number": true,
	"supplier_name":        true,
	"issue_date":           true,
	"due_date":             true,
	"status":               true,
	"subtotal":             true,
	"total_tax":            true,
	"total_amount":         true,
	"amount_paid":          true,
	"submitted_at":         true,
}

// EstimateSortFields contains allowed sort fields for estimates
var EstimateSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"estimate_number": true,
	"customer_name":   true,
	"issue_date":      true,
	"expiry_date":     true,
	"status":          true,
	"subtotal":        true,
	"total_tax":       true,
	"total_amount":    true,
}

// ChartAccountSortFields contains allowed sort fields for chart accounts
var ChartAccountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"class":      true,
	"is_active":  true,
}

// JournalEntrySortFields contains allowed sort fields for journal entries
var JournalEntrySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"entry_date":    true,
	"source_type":   true,
	"source_number": true,
	"total_debit":   true,
	"total_credit":  true,
}

// PartnerSortFields contains allowed sort fields for customers and suppliers
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"state_code": true,
	"email":      true,
	"status":     true,
}
