package billing

import (
	"context"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentAuditHandler writes an audit log record for every document
// lifecycle event. It is the tenant's activity trail: who raised, finalized,
// paid or voided which document, and what the ledger posted for it.
type DocumentAuditHandler struct {
	logger *zap.Logger
}

// NewDocumentAuditHandler creates a new DocumentAuditHandler
func NewDocumentAuditHandler(logger *zap.Logger) *DocumentAuditHandler {
	return &DocumentAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *DocumentAuditHandler) EventTypes() []string {
	return []string{
		billing.EventTypeSalesInvoiceFinalized,
		billing.EventTypeSalesInvoicePaymentApplied,
		billing.EventTypeSalesInvoicePaid,
		billing.EventTypeSalesInvoiceVoided,
		billing.EventTypePurchaseBillSubmitted,
		billing.EventTypePurchaseBillPaymentApplied,
		billing.EventTypePurchaseBillPaid,
		billing.EventTypePurchaseBillVoided,
		billing.EventTypeEstimateSent,
		billing.EventTypeEstimateAccepted,
		billing.EventTypeEstimateDeclined,
		billing.EventTypeEstimateExpired,
		billing.EventTypeEstimateInvoiced,
		ledger.EventTypeJournalEntryPosted,
	}
}

// Handle records the event in the audit log. It never fails: audit logging
// must not abort a document workflow.
func (h *DocumentAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	fields = append(fields, h.detailFields(event)...)

	h.logger.Info("document audit", fields...)
	return nil
}

// detailFields enriches the audit record with event-specific data
func (h *DocumentAuditHandler) detailFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *billing.SalesInvoiceFinalizedEvent:
		return []zap.Field{
			zap.String("document_number", e.InvoiceNumber),
			zap.String("total_amount", e.TotalAmount.String()),
		}
	case *billing.SalesInvoicePaymentAppliedEvent:
		return []zap.Field{
			zap.String("document_number", e.InvoiceNumber),
			zap.String("payment_amount", e.Amount.String()),
			zap.String("outstanding", e.Outstanding.String()),
		}
	case *billing.SalesInvoiceVoidedEvent:
		return []zap.Field{
			zap.String("document_number", e.InvoiceNumber),
			zap.String("reason", e.Reason),
			zap.Bool("was_finalized", e.WasFinalized),
		}
	case *billing.PurchaseBillSubmittedEvent:
		return []zap.Field{
			zap.String("document_number", e.BillNumber),
			zap.String("total_amount", e.TotalAmount.String()),
		}
	case *billing.PurchaseBillPaymentAppliedEvent:
		return []zap.Field{
			zap.String("document_number", e.BillNumber),
			zap.String("payment_amount", e.Amount.String()),
			zap.String("outstanding", e.Outstanding.String()),
		}
	case *ledger.JournalEntryPostedEvent:
		return []zap.Field{
			zap.String("source_type", e.SourceType),
			zap.String("source_number", e.SourceNumber),
			zap.String("total_debit", e.TotalDebit.String()),
			zap.String("total_credit", e.TotalCredit.String()),
			zap.Bool("is_reversal", e.IsReversal),
		}
	default:
		return nil
	}
}

// Ensure DocumentAuditHandler implements shared.EventHandler
var _ shared.EventHandler = (*DocumentAuditHandler)(nil)
