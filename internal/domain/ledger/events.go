package ledger

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeJournalEntry = "JournalEntry"
	AggregateTypeChartAccount = "ChartAccount"
)

// Event type constants
const (
	EventTypeJournalEntryPosted = "JournalEntryPosted"
)

// JournalEntryPostedEvent is raised when a balanced entry is created
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID       `json:"entry_id"`
	SourceType   string          `json:"source_type"`
	SourceID     uuid.UUID       `json:"source_id"`
	SourceNumber string          `json:"source_number,omitempty"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	IsReversal   bool            `json:"is_reversal"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, AggregateTypeJournalEntry, entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		SourceType:      entry.SourceType,
		SourceID:        entry.SourceID,
		SourceNumber:    entry.SourceNumber,
		TotalDebit:      entry.TotalDebit,
		TotalCredit:     entry.TotalCredit,
		IsReversal:      entry.IsReversal,
	}
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return EventTypeJournalEntryPosted
}
