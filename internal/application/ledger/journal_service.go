package ledger

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JournalService exposes read access to the append-only journal and the
// trial balance check. Entries are only ever written by the document
// workflows; there is no manual posting endpoint.
type JournalService struct {
	journalRepo ledger.JournalEntryRepository
}

// NewJournalService creates a new JournalService
func NewJournalService(journalRepo ledger.JournalEntryRepository) *JournalService {
	return &JournalService{journalRepo: journalRepo}
}

// GetByID retrieves a journal entry with its lines
func (s *JournalService) GetByID(ctx context.Context, tenantID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	response := ToJournalEntryResponse(entry)
	return &response, nil
}

// List retrieves journal entries for a tenant, optionally within a date range
func (s *JournalService) List(ctx context.Context, tenantID uuid.UUID, from, to *time.Time, filter shared.Filter) (*shared.Paginated[JournalEntryResponse], error) {
	var entries []ledger.JournalEntry
	var err error
	if from != nil && to != nil {
		entries, err = s.journalRepo.FindByDateRange(ctx, tenantID, *from, *to, filter)
	} else {
		entries, err = s.journalRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.journalRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		items[i] = ToJournalEntryResponse(&entries[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindBySource retrieves the entries posted for one source document
func (s *JournalService) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]JournalEntryResponse, error) {
	entries, err := s.journalRepo.FindBySource(ctx, tenantID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out, nil
}

// CheckTrialBalance sums debits and credits across the tenant's whole
// journal and reports whether they agree
func (s *JournalService) CheckTrialBalance(ctx context.Context, tenantID uuid.UUID) (*ledger.TrialBalanceResult, error) {
	debit, credit, err := s.journalRepo.SumTotals(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := ledger.NewTrialBalanceResult(debit, credit, time.Now())
	return &result, nil
}
