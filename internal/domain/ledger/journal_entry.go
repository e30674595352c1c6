package ledger

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source document types a journal entry can originate from
const (
	SourceTypeSalesInvoice = "SALES_INVOICE"
	SourceTypePurchaseBill = "PURCHASE_BILL"
	SourceTypePayment      = "PAYMENT"
	SourceTypeManual       = "MANUAL"
)

// JournalLine is one side of a posting. Exactly one of Debit or Credit
// is positive, the other is zero.
type JournalLine struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// NewDebitLine creates a debit line for an account
func NewDebitLine(accountID uuid.UUID, amount decimal.Decimal, memo string) JournalLine {
	return JournalLine{
		ID:        uuid.New(),
		AccountID: accountID,
		Debit:     amount,
		Credit:    decimal.Zero,
		Memo:      memo,
	}
}

// NewCreditLine creates a credit line for an account
func NewCreditLine(accountID uuid.UUID, amount decimal.Decimal, memo string) JournalLine {
	return JournalLine{
		ID:        uuid.New(),
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    amount,
		Memo:      memo,
	}
}

// Amount returns whichever side of the line is set
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// reversed swaps the debit and credit sides
func (l JournalLine) reversed() JournalLine {
	return JournalLine{
		ID:        uuid.New(),
		AccountID: l.AccountID,
		Debit:     l.Credit,
		Credit:    l.Debit,
		Memo:      l.Memo,
	}
}

// JournalEntry is an immutable, balanced double-entry posting. Entries
// are never updated or deleted; corrections happen through reversing
// entries.
type JournalEntry struct {
	shared.TenantAggregateRoot
	EntryDate    time.Time
	Narration    string
	SourceType   string
	SourceID     uuid.UUID
	SourceNumber string
	Lines        []JournalLine
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	IsReversal   bool
	// ReversedEntryID points at the entry this one reverses
	ReversedEntryID *uuid.UUID
}

// NewJournalEntry creates a balanced journal entry. Each line must be
// one-sided with a positive amount, and the debit and credit totals must
// match exactly.
func NewJournalEntry(
	tenantID uuid.UUID,
	entryDate time.Time,
	narration string,
	sourceType string,
	sourceID uuid.UUID,
	sourceNumber string,
	lines []JournalLine,
) (*JournalEntry, error) {
	if entryDate.IsZero() {
		return nil, shared.NewValidationError("Entry date is required")
	}
	if sourceType == "" {
		return nil, shared.NewValidationError("Source type cannot be empty")
	}
	if len(lines) < 2 {
		return nil, shared.NewValidationError("A journal entry requires at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if line.AccountID == uuid.Nil {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d has no account", i+1))
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d has a negative amount", i+1))
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return nil, shared.NewValidationError(fmt.Sprintf("Line %d must have exactly one of debit or credit set", i+1))
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, shared.NewDomainError(shared.CodeLedgerImbalance,
			fmt.Sprintf("Journal entry is not balanced: debit %s, credit %s",
				totalDebit.String(), totalCredit.String()))
	}

	entry := &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryDate:           entryDate,
		Narration:           narration,
		SourceType:          sourceType,
		SourceID:            sourceID,
		SourceNumber:        sourceNumber,
		Lines:               lines,
		TotalDebit:          totalDebit,
		TotalCredit:         totalCredit,
	}

	entry.AddDomainEvent(NewJournalEntryPostedEvent(entry))

	return entry, nil
}

// NewReversingEntry builds the mirror image of an existing entry. Every
// line keeps its account with the debit and credit sides swapped.
func NewReversingEntry(original *JournalEntry, entryDate time.Time, narration string) (*JournalEntry, error) {
	if original == nil {
		return nil, shared.NewValidationError("Original entry is required")
	}
	if original.IsReversal {
		return nil, shared.NewStateError("A reversing entry cannot itself be reversed")
	}

	lines := make([]JournalLine, 0, len(original.Lines))
	for _, line := range original.Lines {
		lines = append(lines, line.reversed())
	}

	entry, err := NewJournalEntry(
		original.TenantID,
		entryDate,
		narration,
		original.SourceType,
		original.SourceID,
		original.SourceNumber,
		lines,
	)
	if err != nil {
		return nil, err
	}

	entry.IsReversal = true
	reversedID := original.ID
	entry.ReversedEntryID = &reversedID

	// Re-raise the posted event so it carries the reversal flag
	entry.ClearDomainEvents()
	entry.AddDomainEvent(NewJournalEntryPostedEvent(entry))

	return entry, nil
}

// IsBalanced reports whether the persisted totals still match
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}
