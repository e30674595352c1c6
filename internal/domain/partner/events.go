package partner

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeCustomerUpdated = "CustomerUpdated"
	EventTypeSupplierCreated = "SupplierCreated"
	EventTypeSupplierUpdated = "SupplierUpdated"
)

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	StateCode  string    `json:"state_code"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Name:            c.Name,
		StateCode:       c.StateCode,
	}
}

// EventType returns the event type name
func (e *CustomerCreatedEvent) EventType() string {
	return EventTypeCustomerCreated
}

// CustomerUpdatedEvent is raised when a customer's details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	StateCode  string    `json:"state_code"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Name:            c.Name,
		StateCode:       c.StateCode,
	}
}

// EventType returns the event type name
func (e *CustomerUpdatedEvent) EventType() string {
	return EventTypeCustomerUpdated
}

// SupplierCreatedEvent is raised when a new supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	StateCode  string    `json:"state_code"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, s.ID, s.TenantID),
		SupplierID:      s.ID,
		Name:            s.Name,
		StateCode:       s.StateCode,
	}
}

// EventType returns the event type name
func (e *SupplierCreatedEvent) EventType() string {
	return EventTypeSupplierCreated
}

// SupplierUpdatedEvent is raised when a supplier's details change
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	StateCode  string    `json:"state_code"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(s *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, s.ID, s.TenantID),
		SupplierID:      s.ID,
		Name:            s.Name,
		StateCode:       s.StateCode,
	}
}

// EventType returns the event type name
func (e *SupplierUpdatedEvent) EventType() string {
	return EventTypeSupplierUpdated
}
