package billing

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseBill = "PurchaseBill"

// Event type constants
const (
	EventTypePurchaseBillCreated        = "PurchaseBillCreated"
	EventTypePurchaseBillSubmitted      = "PurchaseBillSubmitted"
	EventTypePurchaseBillPaymentApplied = "PurchaseBillPaymentApplied"
	EventTypePurchaseBillPaid           = "PurchaseBillPaid"
	EventTypePurchaseBillVoided         = "PurchaseBillVoided"
)

// PurchaseBillCreatedEvent is raised when a new draft bill is created
type PurchaseBillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID `json:"bill_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// NewPurchaseBillCreatedEvent creates a new PurchaseBillCreatedEvent
func NewPurchaseBillCreatedEvent(b *PurchaseBill) *PurchaseBillCreatedEvent {
	return &PurchaseBillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseBillCreated, AggregateTypePurchaseBill, b.ID, b.TenantID),
		BillID:          b.ID,
		SupplierID:      b.SupplierID,
		SupplierName:    b.SupplierName,
	}
}

// EventType returns the event type name
func (e *PurchaseBillCreatedEvent) EventType() string {
	return EventTypePurchaseBillCreated
}

// PurchaseBillSubmittedEvent is raised at the draft-to-submitted transition.
// It is the trigger for ledger posting.
type PurchaseBillSubmittedEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseBillSubmittedEvent creates a new PurchaseBillSubmittedEvent
func NewPurchaseBillSubmittedEvent(b *PurchaseBill) *PurchaseBillSubmittedEvent {
	return &PurchaseBillSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseBillSubmitted, AggregateTypePurchaseBill, b.ID, b.TenantID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		SupplierID:      b.SupplierID,
		Subtotal:        b.Subtotal,
		TotalTax:        b.TotalTax,
		TotalAmount:     b.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseBillSubmittedEvent) EventType() string {
	return EventTypePurchaseBillSubmitted
}

// PurchaseBillPaymentAppliedEvent is raised when a partial payment lands
type PurchaseBillPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewPurchaseBillPaymentAppliedEvent creates a new PurchaseBillPaymentAppliedEvent
func NewPurchaseBillPaymentAppliedEvent(b *PurchaseBill, payment *Payment) *PurchaseBillPaymentAppliedEvent {
	return &PurchaseBillPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseBillPaymentApplied, AggregateTypePurchaseBill, b.ID, b.TenantID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		AmountPaid:      b.AmountPaid,
		Outstanding:     b.Outstanding(),
	}
}

// EventType returns the event type name
func (e *PurchaseBillPaymentAppliedEvent) EventType() string {
	return EventTypePurchaseBillPaymentApplied
}

// PurchaseBillPaidEvent is raised when the bill becomes fully paid
type PurchaseBillPaidEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseBillPaidEvent creates a new PurchaseBillPaidEvent
func NewPurchaseBillPaidEvent(b *PurchaseBill) *PurchaseBillPaidEvent {
	return &PurchaseBillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseBillPaid, AggregateTypePurchaseBill, b.ID, b.TenantID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		TotalAmount:     b.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseBillPaidEvent) EventType() string {
	return EventTypePurchaseBillPaid
}

// PurchaseBillVoidedEvent is raised when a bill is voided.
// WasSubmitted tells the ledger whether a reversing entry is due.
type PurchaseBillVoidedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID `json:"bill_id"`
	BillNumber   string    `json:"bill_number,omitempty"`
	Reason       string    `json:"reason"`
	WasSubmitted bool      `json:"was_submitted"`
}

// NewPurchaseBillVoidedEvent creates a new PurchaseBillVoidedEvent
func NewPurchaseBillVoidedEvent(b *PurchaseBill, wasSubmitted bool) *PurchaseBillVoidedEvent {
	return &PurchaseBillVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseBillVoided, AggregateTypePurchaseBill, b.ID, b.TenantID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		Reason:          b.VoidReason,
		WasSubmitted:    wasSubmitted,
	}
}

// EventType returns the event type name
func (e *PurchaseBillVoidedEvent) EventType() string {
	return EventTypePurchaseBillVoided
}
