package ledger

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartAccountRepository defines the interface for chart account persistence
type ChartAccountRepository interface {
	// FindByIDForTenant finds an account by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ChartAccount, error)

	// FindByCode finds an account by its code for a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ChartAccount, error)

	// FindAllForTenant finds all accounts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ChartAccount, error)

	// FindByClass finds accounts of one class for a tenant
	FindByClass(ctx context.Context, tenantID uuid.UUID, class AccountClass) ([]ChartAccount, error)

	// ExistsForTenant reports whether all given account IDs belong to the tenant
	ExistsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (bool, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *ChartAccount) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, account *ChartAccount) error

	// CountForTenant counts accounts for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// JournalEntryRepository defines the interface for journal entry persistence.
// Entries are append-only; there is no update or delete.
type JournalEntryRepository interface {
	// FindByIDForTenant finds an entry by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntry, error)

	// FindBySource finds the entries posted for a source document
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]JournalEntry, error)

	// FindAllForTenant finds all entries for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]JournalEntry, error)

	// FindByDateRange finds entries within a date range for a tenant
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]JournalEntry, error)

	// Save persists a new entry with its lines
	Save(ctx context.Context, entry *JournalEntry) error

	// CountForTenant counts entries for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumTotals returns the debit and credit sums across all entries of a
	// tenant, used by the trial balance check
	SumTotals(ctx context.Context, tenantID uuid.UUID) (debit, credit decimal.Decimal, err error)
}

// LedgerSettingsRepository defines the interface for the tenant account mapping
type LedgerSettingsRepository interface {
	// FindForTenant returns the tenant's settings row, or NOT_FOUND
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*LedgerSettings, error)

	// Save creates or updates the settings row
	Save(ctx context.Context, settings *LedgerSettings) error
}
