package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaxAccountMap maps a tax kind name ("IGST", "CGST", "SGST") to the
// chart account postings for that kind land on. Stored as JSONB.
type TaxAccountMap map[string]uuid.UUID

// Value implements driver.Valuer for database storage
func (m TaxAccountMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(TaxAccountMap{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *TaxAccountMap) Scan(value interface{}) error {
	if value == nil {
		*m = TaxAccountMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// LedgerSettings is the tenant-level account mapping used by the poster.
// One row per tenant; documents cannot be finalized until every account
// the posting needs resolves.
type LedgerSettings struct {
	shared.TenantAggregateRoot
	ReceivableAccountID *uuid.UUID
	PayableAccountID    *uuid.UUID
	RevenueAccountID    *uuid.UUID
	ExpenseAccountID    *uuid.UUID
	CashAccountID       *uuid.UUID
	// TaxPayable receives output tax from sales invoices, per kind
	TaxPayable TaxAccountMap
	// TaxReceivable receives input tax from purchase bills, per kind
	TaxReceivable TaxAccountMap
}

// NewLedgerSettings creates an empty mapping for a tenant
func NewLedgerSettings(tenantID uuid.UUID) *LedgerSettings {
	return &LedgerSettings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TaxPayable:          TaxAccountMap{},
		TaxReceivable:       TaxAccountMap{},
	}
}

func unresolved(name string) error {
	return shared.NewDomainError(shared.CodeUnresolvedAccount,
		fmt.Sprintf("No ledger account configured for %s", name))
}

// ResolveReceivable returns the accounts receivable control account
func (s *LedgerSettings) ResolveReceivable() (uuid.UUID, error) {
	if s.ReceivableAccountID == nil {
		return uuid.Nil, unresolved("accounts receivable")
	}
	return *s.ReceivableAccountID, nil
}

// ResolvePayable returns the accounts payable control account
func (s *LedgerSettings) ResolvePayable() (uuid.UUID, error) {
	if s.PayableAccountID == nil {
		return uuid.Nil, unresolved("accounts payable")
	}
	return *s.PayableAccountID, nil
}

// ResolveRevenue returns the sales revenue account
func (s *LedgerSettings) ResolveRevenue() (uuid.UUID, error) {
	if s.RevenueAccountID == nil {
		return uuid.Nil, unresolved("sales revenue")
	}
	return *s.RevenueAccountID, nil
}

// ResolveExpense returns the purchase expense account
func (s *LedgerSettings) ResolveExpense() (uuid.UUID, error) {
	if s.ExpenseAccountID == nil {
		return uuid.Nil, unresolved("purchase expense")
	}
	return *s.ExpenseAccountID, nil
}

// ResolveCash returns the cash and bank account payments settle against
func (s *LedgerSettings) ResolveCash() (uuid.UUID, error) {
	if s.CashAccountID == nil {
		return uuid.Nil, unresolved("cash and bank")
	}
	return *s.CashAccountID, nil
}

// ResolveTaxPayable returns the output tax account for a tax kind
func (s *LedgerSettings) ResolveTaxPayable(kind string) (uuid.UUID, error) {
	id, ok := s.TaxPayable[kind]
	if !ok || id == uuid.Nil {
		return uuid.Nil, unresolved(kind + " payable")
	}
	return id, nil
}

// ResolveTaxReceivable returns the input tax account for a tax kind
func (s *LedgerSettings) ResolveTaxReceivable(kind string) (uuid.UUID, error) {
	id, ok := s.TaxReceivable[kind]
	if !ok || id == uuid.Nil {
		return uuid.Nil, unresolved(kind + " receivable")
	}
	return id, nil
}

// Update replaces the mapping wholesale. Nil pointers clear an account,
// nil maps leave the existing map untouched.
func (s *LedgerSettings) Update(
	receivable, payable, revenue, expense, cash *uuid.UUID,
	taxPayable, taxReceivable TaxAccountMap,
) {
	s.ReceivableAccountID = receivable
	s.PayableAccountID = payable
	s.RevenueAccountID = revenue
	s.ExpenseAccountID = expense
	s.CashAccountID = cash
	if taxPayable != nil {
		s.TaxPayable = taxPayable
	}
	if taxReceivable != nil {
		s.TaxReceivable = taxReceivable
	}
}
