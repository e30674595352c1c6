package ledger

import (
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to add a chart account
type CreateAccountRequest struct {
	Code     string              `json:"code" binding:"required,min=1,max=20"`
	Name     string              `json:"name" binding:"required,min=1,max=200"`
	Class    ledger.AccountClass `json:"class" binding:"required"`
	ParentID *uuid.UUID          `json:"parent_id"`
}

// RenameAccountRequest represents a request to rename a chart account
type RenameAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// AccountResponse represents a chart account in responses
type AccountResponse struct {
	ID            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	Class         ledger.AccountClass `json:"class"`
	NormalBalance string              `json:"normal_balance"`
	ParentID      *uuid.UUID          `json:"parent_id,omitempty"`
	IsActive      bool                `json:"is_active"`
	IsSystem      bool                `json:"is_system"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToAccountResponse converts a ChartAccount to AccountResponse
func ToAccountResponse(a *ledger.ChartAccount) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Code:          a.Code,
		Name:          a.Name,
		Class:         a.Class,
		NormalBalance: a.Class.NormalBalance(),
		ParentID:      a.ParentID,
		IsActive:      a.IsActive,
		IsSystem:      a.IsSystem,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// UpdateSettingsRequest maps posting roles to chart accounts. Tax maps are
// keyed by tax kind name (IGST, CGST, SGST).
type UpdateSettingsRequest struct {
	ReceivableAccountID *uuid.UUID           `json:"receivable_account_id"`
	PayableAccountID    *uuid.UUID           `json:"payable_account_id"`
	RevenueAccountID    *uuid.UUID           `json:"revenue_account_id"`
	ExpenseAccountID    *uuid.UUID           `json:"expense_account_id"`
	CashAccountID       *uuid.UUID           `json:"cash_account_id"`
	TaxPayable          ledger.TaxAccountMap `json:"tax_payable"`
	TaxReceivable       ledger.TaxAccountMap `json:"tax_receivable"`
}

// SettingsResponse represents the tenant's posting configuration
type SettingsResponse struct {
	ReceivableAccountID *uuid.UUID           `json:"receivable_account_id,omitempty"`
	PayableAccountID    *uuid.UUID           `json:"payable_account_id,omitempty"`
	RevenueAccountID    *uuid.UUID           `json:"revenue_account_id,omitempty"`
	ExpenseAccountID    *uuid.UUID           `json:"expense_account_id,omitempty"`
	CashAccountID       *uuid.UUID           `json:"cash_account_id,omitempty"`
	TaxPayable          ledger.TaxAccountMap `json:"tax_payable"`
	TaxReceivable       ledger.TaxAccountMap `json:"tax_receivable"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// ToSettingsResponse converts LedgerSettings to SettingsResponse
func ToSettingsResponse(s *ledger.LedgerSettings) SettingsResponse {
	return SettingsResponse{
		ReceivableAccountID: s.ReceivableAccountID,
		PayableAccountID:    s.PayableAccountID,
		RevenueAccountID:    s.RevenueAccountID,
		ExpenseAccountID:    s.ExpenseAccountID,
		CashAccountID:       s.CashAccountID,
		TaxPayable:          s.TaxPayable,
		TaxReceivable:       s.TaxReceivable,
		UpdatedAt:           s.UpdatedAt,
	}
}

// JournalLineResponse represents one journal line in responses
type JournalLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalEntryResponse represents a journal entry in responses
type JournalEntryResponse struct {
	ID              uuid.UUID             `json:"id"`
	EntryDate       time.Time             `json:"entry_date"`
	Narration       string                `json:"narration"`
	SourceType      string                `json:"source_type"`
	SourceID        uuid.UUID             `json:"source_id"`
	SourceNumber    string                `json:"source_number,omitempty"`
	Lines           []JournalLineResponse `json:"lines"`
	TotalDebit      decimal.Decimal       `json:"total_debit"`
	TotalCredit     decimal.Decimal       `json:"total_credit"`
	IsReversal      bool                  `json:"is_reversal"`
	ReversedEntryID *uuid.UUID            `json:"reversed_entry_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToJournalEntryResponse converts a JournalEntry to JournalEntryResponse
func ToJournalEntryResponse(e *ledger.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			ID:        l.ID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return JournalEntryResponse{
		ID:              e.ID,
		EntryDate:       e.EntryDate,
		Narration:       e.Narration,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		SourceNumber:    e.SourceNumber,
		Lines:           lines,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		IsReversal:      e.IsReversal,
		ReversedEntryID: e.ReversedEntryID,
		CreatedAt:       e.CreatedAt,
	}
}
