package persistence

import (
	"context"

	appbilling "github.com/finbooks/backend/internal/application/billing"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the sales invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() billing.SalesInvoiceRepository {
	return NewGormSalesInvoiceRepository(r.tx)
}

// BillRepo returns the purchase bill repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BillRepo() billing.PurchaseBillRepository {
	return NewGormPurchaseBillRepository(r.tx)
}

// EstimateRepo returns the estimate repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EstimateRepo() billing.EstimateRepository {
	return NewGormEstimateRepository(r.tx)
}

// SequenceRepo returns the document number allocator scoped to the current transaction.
func (r *gormTransactionalRepositories) SequenceRepo() billing.SequenceAllocator {
	return NewGormDocumentSequenceRepository(r.tx)
}

// JournalRepo returns the journal entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) JournalRepo() ledger.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

// SettingsRepo returns the ledger settings repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SettingsRepo() ledger.LedgerSettingsRepository {
	return NewGormLedgerSettingsRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
