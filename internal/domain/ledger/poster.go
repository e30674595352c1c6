package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingSource carries everything the poster needs to know about a
// finalized document without depending on the document package itself.
type PostingSource struct {
	SourceType   string
	SourceID     uuid.UUID
	SourceNumber string
	PartyName    string
	Date         time.Time
	Subtotal     decimal.Decimal
	// TaxByKind holds the per-kind tax totals of the document
	TaxByKind map[string]decimal.Decimal
	Total     decimal.Decimal
}

// Poster translates document facts into balanced journal entries using
// the tenant's account mapping.
type Poster struct {
	settings *LedgerSettings
}

// NewPoster creates a poster bound to one tenant's settings
func NewPoster(settings *LedgerSettings) *Poster {
	return &Poster{settings: settings}
}

// sortedKinds returns the tax kinds in a stable order
func sortedKinds(taxByKind map[string]decimal.Decimal) []string {
	kinds := make([]string, 0, len(taxByKind))
	for kind := range taxByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// PostSalesInvoice builds the entry for a finalized sales invoice:
// debit receivable for the total, credit revenue for the subtotal,
// credit one tax payable account per tax kind.
func (p *Poster) PostSalesInvoice(src PostingSource) (*JournalEntry, error) {
	receivable, err := p.settings.ResolveReceivable()
	if err != nil {
		return nil, err
	}
	revenue, err := p.settings.ResolveRevenue()
	if err != nil {
		return nil, err
	}

	lines := []JournalLine{
		NewDebitLine(receivable, src.Total, src.PartyName),
		NewCreditLine(revenue, src.Subtotal, ""),
	}
	for _, kind := range sortedKinds(src.TaxByKind) {
		amount := src.TaxByKind[kind]
		if amount.IsZero() {
			continue
		}
		account, err := p.settings.ResolveTaxPayable(kind)
		if err != nil {
			return nil, err
		}
		lines = append(lines, NewCreditLine(account, amount, kind))
	}

	narration := fmt.Sprintf("Sales invoice %s", src.SourceNumber)
	return NewJournalEntry(p.settings.TenantID, src.Date, narration,
		SourceTypeSalesInvoice, src.SourceID, src.SourceNumber, lines)
}

// PostPurchaseBill builds the entry for a submitted purchase bill:
// debit expense for the subtotal, debit one tax receivable account per
// tax kind, credit payable for the total.
func (p *Poster) PostPurchaseBill(src PostingSource) (*JournalEntry, error) {
	payable, err := p.settings.ResolvePayable()
	if err != nil {
		return nil, err
	}
	expense, err := p.settings.ResolveExpense()
	if err != nil {
		return nil, err
	}

	lines := []JournalLine{
		NewDebitLine(expense, src.Subtotal, ""),
	}
	for _, kind := range sortedKinds(src.TaxByKind) {
		amount := src.TaxByKind[kind]
		if amount.IsZero() {
			continue
		}
		account, err := p.settings.ResolveTaxReceivable(kind)
		if err != nil {
			return nil, err
		}
		lines = append(lines, NewDebitLine(account, amount, kind))
	}
	lines = append(lines, NewCreditLine(payable, src.Total, src.PartyName))

	narration := fmt.Sprintf("Purchase bill %s", src.SourceNumber)
	return NewJournalEntry(p.settings.TenantID, src.Date, narration,
		SourceTypePurchaseBill, src.SourceID, src.SourceNumber, lines)
}

// PostInvoicePayment records money received against an invoice:
// debit cash, credit receivable.
func (p *Poster) PostInvoicePayment(src PostingSource, amount decimal.Decimal, paymentDate time.Time) (*JournalEntry, error) {
	cash, err := p.settings.ResolveCash()
	if err != nil {
		return nil, err
	}
	receivable, err := p.settings.ResolveReceivable()
	if err != nil {
		return nil, err
	}

	lines := []JournalLine{
		NewDebitLine(cash, amount, src.PartyName),
		NewCreditLine(receivable, amount, src.PartyName),
	}

	narration := fmt.Sprintf("Payment received for %s", src.SourceNumber)
	return NewJournalEntry(p.settings.TenantID, paymentDate, narration,
		SourceTypePayment, src.SourceID, src.SourceNumber, lines)
}

// PostBillPayment records money paid against a bill:
// debit payable, credit cash.
func (p *Poster) PostBillPayment(src PostingSource, amount decimal.Decimal, paymentDate time.Time) (*JournalEntry, error) {
	cash, err := p.settings.ResolveCash()
	if err != nil {
		return nil, err
	}
	payable, err := p.settings.ResolvePayable()
	if err != nil {
		return nil, err
	}

	lines := []JournalLine{
		NewDebitLine(payable, amount, src.PartyName),
		NewCreditLine(cash, amount, src.PartyName),
	}

	narration := fmt.Sprintf("Payment made for %s", src.SourceNumber)
	return NewJournalEntry(p.settings.TenantID, paymentDate, narration,
		SourceTypePayment, src.SourceID, src.SourceNumber, lines)
}

// PostReversal mirrors an earlier entry when its source document is voided
func (p *Poster) PostReversal(original *JournalEntry, voidDate time.Time, reason string) (*JournalEntry, error) {
	narration := fmt.Sprintf("Reversal of %s", original.Narration)
	if reason != "" {
		narration = fmt.Sprintf("%s: %s", narration, reason)
	}
	return NewReversingEntry(original, voidDate, narration)
}
