package billing

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeEstimate = "Estimate"

// Event type constants
const (
	EventTypeEstimateCreated  = "EstimateCreated"
	EventTypeEstimateSent     = "EstimateSent"
	EventTypeEstimateAccepted = "EstimateAccepted"
	EventTypeEstimateDeclined = "EstimateDeclined"
	EventTypeEstimateExpired  = "EstimateExpired"
	EventTypeEstimateInvoiced = "EstimateInvoiced"
)

// EstimateCreatedEvent is raised when a new draft estimate is created
type EstimateCreatedEvent struct {
	shared.BaseDomainEvent
	EstimateID   uuid.UUID `json:"estimate_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// NewEstimateCreatedEvent creates a new EstimateCreatedEvent
func NewEstimateCreatedEvent(e *Estimate) *EstimateCreatedEvent {
	return &EstimateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateCreated, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
	}
}

// EventType returns the event type name
func (e *EstimateCreatedEvent) EventType() string {
	return EventTypeEstimateCreated
}

// EstimateSentEvent is raised at the draft-to-sent transition
type EstimateSentEvent struct {
	shared.BaseDomainEvent
	EstimateID     uuid.UUID       `json:"estimate_id"`
	EstimateNumber string          `json:"estimate_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewEstimateSentEvent creates a new EstimateSentEvent
func NewEstimateSentEvent(e *Estimate) *EstimateSentEvent {
	return &EstimateSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateSent, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		EstimateNumber:  e.EstimateNumber,
		CustomerID:      e.CustomerID,
		TotalAmount:     e.TotalAmount,
	}
}

// EventType returns the event type name
func (e *EstimateSentEvent) EventType() string {
	return EventTypeEstimateSent
}

// EstimateAcceptedEvent is raised when the customer accepts
type EstimateAcceptedEvent struct {
	shared.BaseDomainEvent
	EstimateID     uuid.UUID `json:"estimate_id"`
	EstimateNumber string    `json:"estimate_number"`
}

// NewEstimateAcceptedEvent creates a new EstimateAcceptedEvent
func NewEstimateAcceptedEvent(e *Estimate) *EstimateAcceptedEvent {
	return &EstimateAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateAccepted, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		EstimateNumber:  e.EstimateNumber,
	}
}

// EventType returns the event type name
func (e *EstimateAcceptedEvent) EventType() string {
	return EventTypeEstimateAccepted
}

// EstimateDeclinedEvent is raised when the customer declines
type EstimateDeclinedEvent struct {
	shared.BaseDomainEvent
	EstimateID     uuid.UUID `json:"estimate_id"`
	EstimateNumber string    `json:"estimate_number"`
}

// NewEstimateDeclinedEvent creates a new EstimateDeclinedEvent
func NewEstimateDeclinedEvent(e *Estimate) *EstimateDeclinedEvent {
	return &EstimateDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateDeclined, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		EstimateNumber:  e.EstimateNumber,
	}
}

// EventType returns the event type name
func (e *EstimateDeclinedEvent) EventType() string {
	return EventTypeEstimateDeclined
}

// EstimateExpiredEvent is raised when a sent estimate passes its expiry date
type EstimateExpiredEvent struct {
	shared.BaseDomainEvent
	EstimateID     uuid.UUID `json:"estimate_id"`
	EstimateNumber string    `json:"estimate_number"`
}

// NewEstimateExpiredEvent creates a new EstimateExpiredEvent
func NewEstimateExpiredEvent(e *Estimate) *EstimateExpiredEvent {
	return &EstimateExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateExpired, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		EstimateNumber:  e.EstimateNumber,
	}
}

// EventType returns the event type name
func (e *EstimateExpiredEvent) EventType() string {
	return EventTypeEstimateExpired
}

// EstimateInvoicedEvent is raised when an accepted estimate is converted
// into a draft sales invoice
type EstimateInvoicedEvent struct {
	shared.BaseDomainEvent
	EstimateID     uuid.UUID `json:"estimate_id"`
	EstimateNumber string    `json:"estimate_number"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
}

// NewEstimateInvoicedEvent creates a new EstimateInvoicedEvent
func NewEstimateInvoicedEvent(e *Estimate, invoiceID uuid.UUID) *EstimateInvoicedEvent {
	return &EstimateInvoicedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateInvoiced, AggregateTypeEstimate, e.ID, e.TenantID),
		EstimateID:      e.ID,
		EstimateNumber:  e.EstimateNumber,
		InvoiceID:       invoiceID,
	}
}

// EventType returns the event type name
func (e *EstimateInvoicedEvent) EventType() string {
	return EventTypeEstimateInvoiced
}
