package billing

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSalesInvoice = "SalesInvoice"

// Event type constants
const (
	EventTypeSalesInvoiceCreated        = "SalesInvoiceCreated"
	EventTypeSalesInvoiceFinalized      = "SalesInvoiceFinalized"
	EventTypeSalesInvoicePaymentApplied = "SalesInvoicePaymentApplied"
	EventTypeSalesInvoicePaid           = "SalesInvoicePaid"
	EventTypeSalesInvoiceVoided         = "SalesInvoiceVoided"
)

// SalesInvoiceCreatedEvent is raised when a new draft invoice is created
type SalesInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID    uuid.UUID `json:"invoice_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// NewSalesInvoiceCreatedEvent creates a new SalesInvoiceCreatedEvent
func NewSalesInvoiceCreatedEvent(inv *SalesInvoice) *SalesInvoiceCreatedEvent {
	return &SalesInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoiceCreated, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
	}
}

// EventType returns the event type name
func (e *SalesInvoiceCreatedEvent) EventType() string {
	return EventTypeSalesInvoiceCreated
}

// SalesInvoiceFinalizedEvent is raised at the draft-to-sent transition.
// It is the trigger for ledger posting.
type SalesInvoiceFinalizedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewSalesInvoiceFinalizedEvent creates a new SalesInvoiceFinalizedEvent
func NewSalesInvoiceFinalizedEvent(inv *SalesInvoice) *SalesInvoiceFinalizedEvent {
	return &SalesInvoiceFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoiceFinalized, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Subtotal:        inv.Subtotal,
		TotalTax:        inv.TotalTax,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *SalesInvoiceFinalizedEvent) EventType() string {
	return EventTypeSalesInvoiceFinalized
}

// SalesInvoicePaymentAppliedEvent is raised when a partial payment lands
type SalesInvoicePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// NewSalesInvoicePaymentAppliedEvent creates a new SalesInvoicePaymentAppliedEvent
func NewSalesInvoicePaymentAppliedEvent(inv *SalesInvoice, payment *Payment) *SalesInvoicePaymentAppliedEvent {
	return &SalesInvoicePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoicePaymentApplied, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		AmountPaid:      inv.AmountPaid,
		Outstanding:     inv.Outstanding(),
	}
}

// EventType returns the event type name
func (e *SalesInvoicePaymentAppliedEvent) EventType() string {
	return EventTypeSalesInvoicePaymentApplied
}

// SalesInvoicePaidEvent is raised when the invoice becomes fully paid
type SalesInvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewSalesInvoicePaidEvent creates a new SalesInvoicePaidEvent
func NewSalesInvoicePaidEvent(inv *SalesInvoice) *SalesInvoicePaidEvent {
	return &SalesInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoicePaid, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *SalesInvoicePaidEvent) EventType() string {
	return EventTypeSalesInvoicePaid
}

// SalesInvoiceVoidedEvent is raised when an invoice is voided.
// WasFinalized tells the ledger whether a reversing entry is due.
type SalesInvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	Reason        string    `json:"reason"`
	WasFinalized  bool      `json:"was_finalized"`
}

// NewSalesInvoiceVoidedEvent creates a new SalesInvoiceVoidedEvent
func NewSalesInvoiceVoidedEvent(inv *SalesInvoice, wasFinalized bool) *SalesInvoiceVoidedEvent {
	return &SalesInvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoiceVoided, AggregateTypeSalesInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.VoidReason,
		WasFinalized:    wasFinalized,
	}
}

// EventType returns the event type name
func (e *SalesInvoiceVoidedEvent) EventType() string {
	return EventTypeSalesInvoiceVoided
}
