package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentKind identifies a numbered commercial document type
type DocumentKind string

const (
	DocumentKindEstimate     DocumentKind = "ESTIMATE"
	DocumentKindSalesInvoice DocumentKind = "SALES_INVOICE"
	DocumentKindPurchaseBill DocumentKind = "PURCHASE_BILL"
)

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindEstimate || k == DocumentKindSalesInvoice || k == DocumentKindPurchaseBill
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// SequenceAllocator hands out the next sequence value for a
// (tenant, kind, period) triple. Implementations must be atomic: two
// concurrent callers must never receive the same value. The allocation
// participates in the caller's transaction, so a rolled-back finalize
// releases its number.
type SequenceAllocator interface {
	Next(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, period string) (int64, error)
}

// NumberingRule configures the number format for one document kind
type NumberingRule struct {
	Prefix     string // e.g. INV, BILL, EST
	SeqPadding int    // zero-padding width of the sequence part
}

// NumberingConfig holds per-kind rules and the fiscal period settings
type NumberingConfig struct {
	Rules                map[DocumentKind]NumberingRule
	FiscalYearStartMonth time.Month // April for the Indian fiscal year
}

// DefaultNumberingConfig returns the standard INV/BILL/EST format with an
// April fiscal-year start.
func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		Rules: map[DocumentKind]NumberingRule{
			DocumentKindEstimate:     {Prefix: "EST", SeqPadding: 5},
			DocumentKindSalesInvoice: {Prefix: "INV", SeqPadding: 5},
			DocumentKindPurchaseBill: {Prefix: "BILL", SeqPadding: 5},
		},
		FiscalYearStartMonth: time.April,
	}
}

// FiscalPeriod returns the period token for a date, e.g. "2025-26" for any
// date from 2025-04-01 through 2026-03-31 with an April start month.
func FiscalPeriod(asOf time.Time, startMonth time.Month) string {
	startYear := asOf.Year()
	if asOf.Month() < startMonth {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// maxAllocationAttempts bounds the internal retry on allocation races
// before NUMBERING_CONFLICT is surfaced to the caller as transient.
const maxAllocationAttempts = 3

// NumberGenerator produces human-readable document numbers, unique within
// (tenant, kind) and strictly increasing within a fiscal period. Format:
// <PREFIX>-<PERIOD>-<SEQ>, e.g. INV-2025-26-00042.
type NumberGenerator struct {
	allocator SequenceAllocator
	config    NumberingConfig
}

// NewNumberGenerator creates a new NumberGenerator
func NewNumberGenerator(allocator SequenceAllocator, config NumberingConfig) *NumberGenerator {
	return &NumberGenerator{allocator: allocator, config: config}
}

// Next allocates the next number for the given tenant and kind as of a date.
// Allocation failures must abort the caller's finalize operation: the number
// assignment and the finalization are one failure-atomic unit of work.
func (g *NumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, asOf time.Time) (string, error) {
	if tenantID == uuid.Nil {
		return "", shared.NewValidationError("Tenant ID cannot be empty")
	}
	rule, ok := g.config.Rules[kind]
	if !ok {
		return "", shared.NewValidationError(fmt.Sprintf("No numbering rule configured for document kind %s", kind))
	}

	period := FiscalPeriod(asOf, g.config.FiscalYearStartMonth)

	var lastErr error
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		seq, err := g.allocator.Next(ctx, tenantID, kind, period)
		if err == nil {
			return fmt.Sprintf("%s-%s-%0*d", rule.Prefix, period, rule.SeqPadding, seq), nil
		}
		if !shared.IsDomainError(err, shared.CodeNumberingConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
