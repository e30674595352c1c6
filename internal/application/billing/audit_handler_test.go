package billing

import (
	"context"
	"testing"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDocumentAuditHandlerEventTypes(t *testing.T) {
	h := NewDocumentAuditHandler(zap.NewNop())

	types := h.EventTypes()
	assert.Contains(t, types, billing.EventTypeSalesInvoiceFinalized)
	assert.Contains(t, types, billing.EventTypePurchaseBillSubmitted)
	assert.Contains(t, types, billing.EventTypeEstimateAccepted)
	assert.Contains(t, types, ledger.EventTypeJournalEntryPosted)
	// Draft creation is not audited; only lifecycle transitions are.
	assert.NotContains(t, types, billing.EventTypeSalesInvoiceCreated)
}

func TestDocumentAuditHandlerHandle(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewDocumentAuditHandler(zap.New(core))

	tenantID := uuid.New()
	event := &billing.SalesInvoiceFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			billing.EventTypeSalesInvoiceFinalized, billing.AggregateTypeSalesInvoice, uuid.New(), tenantID),
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2026-00042",
		TotalAmount:   decimal.NewFromInt(1180),
	}

	err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "document audit", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, billing.EventTypeSalesInvoiceFinalized, fields["event_type"])
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, "INV-2026-00042", fields["document_number"])
	assert.Equal(t, "1180", fields["total_amount"])
}

func TestDocumentAuditHandlerHandleJournalEntry(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewDocumentAuditHandler(zap.New(core))

	event := &ledger.JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			ledger.EventTypeJournalEntryPosted, ledger.AggregateTypeJournalEntry, uuid.New(), uuid.New()),
		EntryID:      uuid.New(),
		SourceType:   "invoice",
		SourceNumber: "INV-2026-00042",
		TotalDebit:   decimal.NewFromInt(1180),
		TotalCredit:  decimal.NewFromInt(1180),
		IsReversal:   false,
	}

	err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	entries := recorded.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "invoice", fields["source_type"])
	assert.Equal(t, "1180", fields["total_debit"])
	assert.Equal(t, "1180", fields["total_credit"])
	assert.Equal(t, false, fields["is_reversal"])
}

func TestDocumentAuditHandlerHandleUnknownEvent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewDocumentAuditHandler(zap.New(core))

	// Events without specific detail mapping still produce an audit record
	event := &billing.EstimateAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			billing.EventTypeEstimateAccepted, billing.AggregateTypeEstimate, uuid.New(), uuid.New()),
		EstimateID:     uuid.New(),
		EstimateNumber: "EST-2026-00007",
	}

	err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Len(t, recorded.All(), 1)
}
