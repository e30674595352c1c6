package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartAccountModel is the persistence model for the ChartAccount aggregate root.
type ChartAccountModel struct {
	TenantAggregateModel
	Code     string              `gorm:"type:varchar(20);not null;uniqueIndex:idx_chart_account_tenant_code,priority:2"`
	Name     string              `gorm:"type:varchar(200);not null"`
	Class    ledger.AccountClass `gorm:"type:varchar(20);not null;index"`
	ParentID *uuid.UUID          `gorm:"type:uuid;index"`
	IsActive bool                `gorm:"not null;default:true"`
	IsSystem bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ChartAccountModel) TableName() string {
	return "chart_accounts"
}

// ToDomain converts the persistence model to a domain ChartAccount
func (m *ChartAccountModel) ToDomain() *ledger.ChartAccount {
	account := &ledger.ChartAccount{
		Code:     m.Code,
		Name:     m.Name,
		Class:    m.Class,
		ParentID: m.ParentID,
		IsActive: m.IsActive,
		IsSystem: m.IsSystem,
	}
	m.PopulateTenantAggregateRoot(&account.TenantAggregateRoot)
	return account
}

// ChartAccountModelFromDomain creates a persistence model from a domain ChartAccount
func ChartAccountModelFromDomain(account *ledger.ChartAccount) *ChartAccountModel {
	m := &ChartAccountModel{
		Code:     account.Code,
		Name:     account.Name,
		Class:    account.Class,
		ParentID: account.ParentID,
		IsActive: account.IsActive,
		IsSystem: account.IsSystem,
	}
	m.FromDomainTenantAggregateRoot(account.TenantAggregateRoot)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate
// root. Entries are append-only; the repository never issues an UPDATE or
// DELETE against this table.
type JournalEntryModel struct {
	TenantAggregateModel
	EntryDate       time.Time          `gorm:"not null;index"`
	Narration       string             `gorm:"type:varchar(500)"`
	SourceType      string             `gorm:"type:varchar(30);not null;index:idx_journal_entry_source,priority:2"`
	SourceID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_journal_entry_source,priority:3"`
	SourceNumber    string             `gorm:"type:varchar(50)"`
	Lines           []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
	TotalDebit      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	TotalCredit     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	IsReversal      bool               `gorm:"not null;default:false"`
	ReversedEntryID *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain JournalEntry
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	entry := &ledger.JournalEntry{
		EntryDate:       m.EntryDate,
		Narration:       m.Narration,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		SourceNumber:    m.SourceNumber,
		TotalDebit:      m.TotalDebit,
		TotalCredit:     m.TotalCredit,
		IsReversal:      m.IsReversal,
		ReversedEntryID: m.ReversedEntryID,
		Lines:           make([]ledger.JournalLine, len(m.Lines)),
	}
	m.PopulateTenantAggregateRoot(&entry.TenantAggregateRoot)
	for i, line := range m.Lines {
		entry.Lines[i] = line.ToDomain()
	}
	return entry
}

// JournalEntryModelFromDomain creates a persistence model from a domain JournalEntry
func JournalEntryModelFromDomain(entry *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{
		EntryDate:       entry.EntryDate,
		Narration:       entry.Narration,
		SourceType:      entry.SourceType,
		SourceID:        entry.SourceID,
		SourceNumber:    entry.SourceNumber,
		TotalDebit:      entry.TotalDebit,
		TotalCredit:     entry.TotalCredit,
		IsReversal:      entry.IsReversal,
		ReversedEntryID: entry.ReversedEntryID,
	}
	m.FromDomainTenantAggregateRoot(entry.TenantAggregateRoot)
	m.Lines = make([]JournalLineModel, len(entry.Lines))
	for i, line := range entry.Lines {
		m.Lines[i] = JournalLineModelFromDomain(entry.ID, line)
	}
	return m
}

// JournalLineModel is the persistence model for one side of a posting.
type JournalLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Memo      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalLine
func (m *JournalLineModel) ToDomain() ledger.JournalLine {
	return ledger.JournalLine{
		ID:        m.ID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      m.Memo,
	}
}

// JournalLineModelFromDomain creates a persistence model from a domain JournalLine
func JournalLineModelFromDomain(entryID uuid.UUID, line ledger.JournalLine) JournalLineModel {
	return JournalLineModel{
		ID:        line.ID,
		EntryID:   entryID,
		AccountID: line.AccountID,
		Debit:     line.Debit,
		Credit:    line.Credit,
		Memo:      line.Memo,
	}
}

// LedgerSettingsModel is the persistence model for the tenant account
// mapping. One row per tenant.
type LedgerSettingsModel struct {
	TenantAggregateModel
	ReceivableAccountID *uuid.UUID           `gorm:"type:uuid"`
	PayableAccountID    *uuid.UUID           `gorm:"type:uuid"`
	RevenueAccountID    *uuid.UUID           `gorm:"type:uuid"`
	ExpenseAccountID    *uuid.UUID           `gorm:"type:uuid"`
	CashAccountID       *uuid.UUID           `gorm:"type:uuid"`
	TaxPayable          ledger.TaxAccountMap `gorm:"type:jsonb;not null;default:'{}'"`
	TaxReceivable       ledger.TaxAccountMap `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (LedgerSettingsModel) TableName() string {
	return "ledger_settings"
}

// ToDomain converts the persistence model to domain LedgerSettings
func (m *LedgerSettingsModel) ToDomain() *ledger.LedgerSettings {
	settings := &ledger.LedgerSettings{
		ReceivableAccountID: m.ReceivableAccountID,
		PayableAccountID:    m.PayableAccountID,
		RevenueAccountID:    m.RevenueAccountID,
		ExpenseAccountID:    m.ExpenseAccountID,
		CashAccountID:       m.CashAccountID,
		TaxPayable:          m.TaxPayable,
		TaxReceivable:       m.TaxReceivable,
	}
	m.PopulateTenantAggregateRoot(&settings.TenantAggregateRoot)
	if settings.TaxPayable == nil {
		settings.TaxPayable = ledger.TaxAccountMap{}
	}
	if settings.TaxReceivable == nil {
		settings.TaxReceivable = ledger.TaxAccountMap{}
	}
	return settings
}

// LedgerSettingsModelFromDomain creates a persistence model from domain LedgerSettings
func LedgerSettingsModelFromDomain(settings *ledger.LedgerSettings) *LedgerSettingsModel {
	m := &LedgerSettingsModel{
		ReceivableAccountID: settings.ReceivableAccountID,
		PayableAccountID:    settings.PayableAccountID,
		RevenueAccountID:    settings.RevenueAccountID,
		ExpenseAccountID:    settings.ExpenseAccountID,
		CashAccountID:       settings.CashAccountID,
		TaxPayable:          settings.TaxPayable,
		TaxReceivable:       settings.TaxReceivable,
	}
	m.FromDomainTenantAggregateRoot(settings.TenantAggregateRoot)
	return m
}
