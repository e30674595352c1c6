package billing

import (
	"context"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the document and ledger
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically. Finalize, payment and void flows depend on this:
// the number allocation, the status change and the journal entry are one
// failure-atomic unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a document
// workflow touches, all bound to the same transaction.
//
// Aggregate boundary notes:
//   - Documents own their line items and payment records; both are
//     persisted through the document repository with the aggregate.
//   - SequenceRepo allocates document numbers with a row lock, so a
//     rolled-back finalize releases its number.
//   - JournalRepo is append-only; reversals are new entries.
type TransactionalRepositories interface {
	// InvoiceRepo returns the sales invoice repository scoped to the current transaction
	InvoiceRepo() billing.SalesInvoiceRepository
	// BillRepo returns the purchase bill repository scoped to the current transaction
	BillRepo() billing.PurchaseBillRepository
	// EstimateRepo returns the estimate repository scoped to the current transaction
	EstimateRepo() billing.EstimateRepository
	// SequenceRepo returns the document number allocator scoped to the current transaction
	SequenceRepo() billing.SequenceAllocator
	// JournalRepo returns the journal entry repository scoped to the current transaction
	JournalRepo() ledger.JournalEntryRepository
	// SettingsRepo returns the ledger settings repository scoped to the current transaction
	SettingsRepo() ledger.LedgerSettingsRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the fake repositories are already atomic.
type NoOpTransactionScope struct {
	invoiceRepo  billing.SalesInvoiceRepository
	billRepo     billing.PurchaseBillRepository
	estimateRepo billing.EstimateRepository
	sequenceRepo billing.SequenceAllocator
	journalRepo  ledger.JournalEntryRepository
	settingsRepo ledger.LedgerSettingsRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	invoiceRepo billing.SalesInvoiceRepository,
	billRepo billing.PurchaseBillRepository,
	estimateRepo billing.EstimateRepository,
	sequenceRepo billing.SequenceAllocator,
	journalRepo ledger.JournalEntryRepository,
	settingsRepo ledger.LedgerSettingsRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		billRepo:     billRepo,
		estimateRepo: estimateRepo,
		sequenceRepo: sequenceRepo,
		journalRepo:  journalRepo,
		settingsRepo: settingsRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the sales invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.SalesInvoiceRepository { return s.invoiceRepo }

// BillRepo returns the purchase bill repository
func (s *NoOpTransactionScope) BillRepo() billing.PurchaseBillRepository { return s.billRepo }

// EstimateRepo returns the estimate repository
func (s *NoOpTransactionScope) EstimateRepo() billing.EstimateRepository { return s.estimateRepo }

// SequenceRepo returns the document number allocator
func (s *NoOpTransactionScope) SequenceRepo() billing.SequenceAllocator { return s.sequenceRepo }

// JournalRepo returns the journal entry repository
func (s *NoOpTransactionScope) JournalRepo() ledger.JournalEntryRepository { return s.journalRepo }

// SettingsRepo returns the ledger settings repository
func (s *NoOpTransactionScope) SettingsRepo() ledger.LedgerSettingsRepository {
	return s.settingsRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
