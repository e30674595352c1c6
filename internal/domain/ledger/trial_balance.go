package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceStatus represents the result status of a trial balance check
type TrialBalanceStatus string

const (
	TrialBalanceStatusBalanced   TrialBalanceStatus = "BALANCED"
	TrialBalanceStatusUnbalanced TrialBalanceStatus = "UNBALANCED"
)

// String returns the string representation
func (s TrialBalanceStatus) String() string {
	return string(s)
}

// IsBalanced returns true if the trial balance is balanced
func (s TrialBalanceStatus) IsBalanced() bool {
	return s == TrialBalanceStatusBalanced
}

// TrialBalanceResult summarises one trial balance check over a tenant's
// journal. Every entry is individually balanced on creation, so an
// unbalanced result means storage-level corruption.
type TrialBalanceResult struct {
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Difference  decimal.Decimal    `json:"difference"`
	Status      TrialBalanceStatus `json:"status"`
	CheckedAt   time.Time          `json:"checked_at"`
}

// NewTrialBalanceResult builds the check result from the journal sums
func NewTrialBalanceResult(totalDebit, totalCredit decimal.Decimal, checkedAt time.Time) TrialBalanceResult {
	diff := totalDebit.Sub(totalCredit)
	status := TrialBalanceStatusBalanced
	if !diff.IsZero() {
		status = TrialBalanceStatusUnbalanced
	}
	return TrialBalanceResult{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  diff,
		Status:      status,
		CheckedAt:   checkedAt,
	}
}
