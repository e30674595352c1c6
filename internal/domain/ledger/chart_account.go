package ledger

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountClass represents the classification of a chart account
type AccountClass string

const (
	AccountClassAsset     AccountClass = "ASSET"
	AccountClassLiability AccountClass = "LIABILITY"
	AccountClassEquity    AccountClass = "EQUITY"
	AccountClassRevenue   AccountClass = "REVENUE"
	AccountClassExpense   AccountClass = "EXPENSE"
)

// IsValid checks if the class is a valid AccountClass
func (c AccountClass) IsValid() bool {
	switch c {
	case AccountClassAsset, AccountClassLiability, AccountClassEquity,
		AccountClassRevenue, AccountClassExpense:
		return true
	}
	return false
}

// String returns the string representation
func (c AccountClass) String() string {
	return string(c)
}

// NormalBalance returns "DEBIT" or "CREDIT" for the class
func (c AccountClass) NormalBalance() string {
	switch c {
	case AccountClassAsset, AccountClassExpense:
		return "DEBIT"
	default:
		return "CREDIT"
	}
}

// ChartAccount is tenant-scoped master data describing one ledger account
type ChartAccount struct {
	shared.TenantAggregateRoot
	Code     string
	Name     string
	Class    AccountClass
	ParentID *uuid.UUID
	IsActive bool
	// IsSystem accounts are seeded per tenant and cannot be deactivated
	IsSystem bool
}

// NewChartAccount creates a new active chart account
func NewChartAccount(tenantID uuid.UUID, code, name string, class AccountClass, parentID *uuid.UUID) (*ChartAccount, error) {
	if code == "" {
		return nil, shared.NewValidationError("Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewValidationError("Account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewValidationError("Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Account name cannot exceed 200 characters")
	}
	if !class.IsValid() {
		return nil, shared.NewValidationError("Invalid account class: " + string(class))
	}

	return &ChartAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Class:               class,
		ParentID:            parentID,
		IsActive:            true,
	}, nil
}

// Rename changes the display name
func (a *ChartAccount) Rename(name string) error {
	if name == "" {
		return shared.NewValidationError("Account name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Account name cannot exceed 200 characters")
	}
	a.Name = name
	return nil
}

// Deactivate hides the account from new postings. Existing journal lines
// keep referencing it.
func (a *ChartAccount) Deactivate() error {
	if a.IsSystem {
		return shared.NewStateError("System accounts cannot be deactivated")
	}
	if !a.IsActive {
		return shared.NewStateError("Account is already inactive")
	}
	a.IsActive = false
	return nil
}

// Activate re-enables the account for posting
func (a *ChartAccount) Activate() error {
	if a.IsActive {
		return shared.NewStateError("Account is already active")
	}
	a.IsActive = true
	return nil
}
