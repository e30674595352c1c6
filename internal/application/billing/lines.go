package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// taxTolerance is the rounding slack allowed between a caller-declared
// line tax amount and the server-derived one.
var taxTolerance = decimal.NewFromFloat(0.01)

// buildLineItems converts request line inputs into domain line items.
// The document ID and tax split are filled in by ReplaceLines and the
// subsequent recalculation.
func buildLineItems(inputs []LineItemInput) ([]billing.LineItem, error) {
	lines := make([]billing.LineItem, 0, len(inputs))
	for i, input := range inputs {
		line, err := billing.NewLineItem(uuid.Nil, i+1, input.ProductID, input.Description,
			input.HSNCode, input.Quantity, valueobject.NewMoneyINR(input.UnitPrice))
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

// verifyDeclaredTaxes compares caller-declared per-line tax amounts against
// the server-derived split. Declared amounts are advisory: they are never
// stored, only checked, and a drift beyond rounding tolerance rejects the
// whole request.
func verifyDeclaredTaxes(inputs []LineItemInput, lines []billing.LineItem) error {
	if len(inputs) != len(lines) {
		return shared.NewValidationError("Line count mismatch")
	}
	for i, input := range inputs {
		if input.TaxAmount == nil {
			continue
		}
		derived := lines[i].TaxTotal()
		if input.TaxAmount.Sub(derived).Abs().GreaterThan(taxTolerance) {
			return shared.NewValidationError(fmt.Sprintf(
				"Line %d declares tax %s but the computed tax is %s",
				i+1, input.TaxAmount.StringFixed(2), derived.StringFixed(2)))
		}
	}
	return nil
}

// invoicePostingSource maps a finalized invoice into the ledger's neutral
// posting shape. The ledger context never sees document types directly.
func invoicePostingSource(inv *billing.SalesInvoice) ledger.PostingSource {
	return ledger.PostingSource{
		SourceType:   ledger.SourceTypeSalesInvoice,
		SourceID:     inv.ID,
		SourceNumber: inv.InvoiceNumber,
		PartyName:    inv.CustomerName,
		Date:         inv.IssueDate,
		Subtotal:     inv.Subtotal,
		TaxByKind:    taxKindStrings(inv.TaxTotalsByKind()),
		Total:        inv.TotalAmount,
	}
}

// billPostingSource maps a submitted bill into the ledger's posting shape
func billPostingSource(b *billing.PurchaseBill) ledger.PostingSource {
	return ledger.PostingSource{
		SourceType:   ledger.SourceTypePurchaseBill,
		SourceID:     b.ID,
		SourceNumber: b.BillNumber,
		PartyName:    b.SupplierName,
		Date:         b.IssueDate,
		Subtotal:     b.Subtotal,
		TaxByKind:    taxKindStrings(b.TaxTotalsByKind()),
		Total:        b.TotalAmount,
	}
}

func taxKindStrings(byKind map[billing.TaxKind]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(byKind))
	for kind, amount := range byKind {
		out[kind.String()] = amount
	}
	return out
}

// reverseSourceEntries posts a mirror entry for each original entry of a
// voided document. Entries that are themselves reversals, or that have
// already been reversed, are skipped.
func reverseSourceEntries(
	ctx context.Context,
	journalRepo ledger.JournalEntryRepository,
	poster *ledger.Poster,
	tenantID uuid.UUID,
	sourceType string,
	sourceID uuid.UUID,
	voidDate time.Time,
	reason string,
) error {
	entries, err := journalRepo.FindBySource(ctx, tenantID, sourceType, sourceID)
	if err != nil {
		return err
	}

	reversed := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if entry.ReversedEntryID != nil {
			reversed[*entry.ReversedEntryID] = true
		}
	}

	for i := range entries {
		entry := &entries[i]
		if entry.IsReversal || reversed[entry.ID] {
			continue
		}
		reversal, err := poster.PostReversal(entry, voidDate, reason)
		if err != nil {
			return err
		}
		if err := journalRepo.Save(ctx, reversal); err != nil {
			return err
		}
	}
	return nil
}
