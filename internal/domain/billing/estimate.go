package billing

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimateStatus represents the status of an estimate
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "DRAFT"
	EstimateStatusSent     EstimateStatus = "SENT"
	EstimateStatusAccepted EstimateStatus = "ACCEPTED"
	EstimateStatusDeclined EstimateStatus = "DECLINED"
	EstimateStatusExpired  EstimateStatus = "EXPIRED"
	EstimateStatusInvoiced EstimateStatus = "INVOICED"
)

// estimateTransitions is the fixed adjacency table of legal transitions
var estimateTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateStatusDraft:    {EstimateStatusSent},
	EstimateStatusSent:     {EstimateStatusAccepted, EstimateStatusDeclined, EstimateStatusExpired},
	EstimateStatusAccepted: {EstimateStatusInvoiced},
	EstimateStatusDeclined: {},
	EstimateStatusExpired:  {},
	EstimateStatusInvoiced: {},
}

// IsValid checks if the status is a valid EstimateStatus
func (s EstimateStatus) IsValid() bool {
	_, ok := estimateTransitions[s]
	return ok
}

// String returns the string representation of EstimateStatus
func (s EstimateStatus) String() string {
	return string(s)
}

// CanTransitionTo checks the adjacency table for a legal transition
func (s EstimateStatus) CanTransitionTo(target EstimateStatus) bool {
	for _, t := range estimateTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the estimate is in a terminal state
func (s EstimateStatus) IsTerminal() bool {
	return s == EstimateStatusDeclined || s == EstimateStatusExpired || s == EstimateStatusInvoiced
}

// Estimate is the aggregate root for a quotation. Estimates carry the same
// priced line structure as invoices but have no payments and no ledger
// effect; an accepted estimate is materialized into a sales invoice by the
// conversion service.
type Estimate struct {
	shared.TenantAggregateRoot
	EstimateNumber string // empty until sent, assigned exactly once
	CustomerID     uuid.UUID
	CustomerName   string
	CompanyState   string
	PlaceOfSupply  string
	TaxRate        decimal.Decimal
	IssueDate      time.Time
	ExpiryDate     *time.Time
	Lines          []LineItem
	Subtotal       decimal.Decimal
	TotalTax       decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         EstimateStatus
	Notes          string
	InvoiceID      *uuid.UUID // set when converted
	SentAt         *time.Time
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	ExpiredAt      *time.Time
	InvoicedAt     *time.Time
}

// NewEstimate creates a new draft estimate
func NewEstimate(tenantID, customerID uuid.UUID, customerName, companyState, placeOfSupply string, taxRate decimal.Decimal, issueDate time.Time, expiryDate *time.Time) (*Estimate, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if companyState == "" {
		return nil, shared.NewValidationError("Company jurisdiction code cannot be empty")
	}
	if placeOfSupply == "" {
		return nil, shared.NewValidationError("Place of supply cannot be empty")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewValidationError("Tax rate cannot be negative")
	}
	if issueDate.IsZero() {
		return nil, shared.NewValidationError("Issue date is required")
	}
	if expiryDate != nil && expiryDate.Before(issueDate) {
		return nil, shared.NewValidationError("Expiry date cannot be before the issue date")
	}

	est := &Estimate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		CustomerName:        customerName,
		CompanyState:        companyState,
		PlaceOfSupply:       placeOfSupply,
		TaxRate:             taxRate,
		IssueDate:           issueDate,
		ExpiryDate:          expiryDate,
		Lines:               make([]LineItem, 0),
		Subtotal:            decimal.Zero,
		TotalTax:            decimal.Zero,
		TotalAmount:         decimal.Zero,
		Status:              EstimateStatusDraft,
	}

	est.AddDomainEvent(NewEstimateCreatedEvent(est))

	return est, nil
}

// CanModify returns true if lines may be added, edited or removed
func (e *Estimate) CanModify() bool {
	return e.Status == EstimateStatusDraft
}

// AddLine appends a line item, derives its tax split and recomputes totals
func (e *Estimate) AddLine(productID *uuid.UUID, description, hsnCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if !e.CanModify() {
		return nil, shared.NewStateError("Cannot add lines to a non-draft estimate")
	}

	line, err := NewLineItem(e.ID, len(e.Lines)+1, productID, description, hsnCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	e.Lines = append(e.Lines, *line)
	if err := e.recalculate(); err != nil {
		e.Lines = e.Lines[:len(e.Lines)-1]
		return nil, err
	}
	e.UpdatedAt = time.Now()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line
func (e *Estimate) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if !e.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft estimate")
	}
	for idx := range e.Lines {
		if e.Lines[idx].ID == lineID {
			if err := e.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			if err := e.recalculate(); err != nil {
				return err
			}
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Estimate line not found")
}

// UpdateLineUnitPrice updates the unit price of an existing line
func (e *Estimate) UpdateLineUnitPrice(lineID uuid.UUID, unitPrice valueobject.Money) error {
	if !e.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft estimate")
	}
	for idx := range e.Lines {
		if e.Lines[idx].ID == lineID {
			if err := e.Lines[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			if err := e.recalculate(); err != nil {
				return err
			}
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Estimate line not found")
}

// RemoveLine removes a line and renumbers the remaining positions
func (e *Estimate) RemoveLine(lineID uuid.UUID) error {
	if !e.CanModify() {
		return shared.NewStateError("Cannot remove lines from a non-draft estimate")
	}
	for idx, line := range e.Lines {
		if line.ID == lineID {
			e.Lines = append(e.Lines[:idx], e.Lines[idx+1:]...)
			for i := range e.Lines {
				e.Lines[i].Position = i + 1
			}
			if err := e.recalculate(); err != nil {
				return err
			}
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Estimate line not found")
}

// ReplaceLines swaps the whole line set in one edit (draft only)
func (e *Estimate) ReplaceLines(lines []LineItem) error {
	if !e.CanModify() {
		return shared.NewStateError("Cannot replace lines of a non-draft estimate")
	}
	e.Lines = make([]LineItem, len(lines))
	copy(e.Lines, lines)
	for i := range e.Lines {
		e.Lines[i].DocumentID = e.ID
		e.Lines[i].Position = i + 1
	}
	if err := e.recalculate(); err != nil {
		return err
	}
	e.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the estimate notes
func (e *Estimate) SetNotes(notes string) error {
	if e.Status.IsTerminal() {
		return shared.NewStateError("Cannot modify a terminal estimate")
	}
	e.Notes = notes
	e.UpdatedAt = time.Now()
	return nil
}

// Send assigns the permanent estimate number and moves draft to sent
func (e *Estimate) Send(estimateNumber string) error {
	if !e.Status.CanTransitionTo(EstimateStatusSent) {
		return shared.NewStateError(fmt.Sprintf("Cannot send estimate in %s status", e.Status))
	}
	if e.EstimateNumber != "" {
		return shared.NewStateError("Estimate number has already been assigned")
	}
	if estimateNumber == "" {
		return shared.NewValidationError("Estimate number cannot be empty")
	}
	if len(e.Lines) == 0 {
		return shared.NewValidationError("Cannot send an estimate without lines")
	}
	if err := e.recalculate(); err != nil {
		return err
	}

	now := time.Now()
	e.EstimateNumber = estimateNumber
	e.Status = EstimateStatusSent
	e.SentAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEstimateSentEvent(e))

	return nil
}

// Accept marks a sent estimate as accepted by the customer
func (e *Estimate) Accept() error {
	if !e.Status.CanTransitionTo(EstimateStatusAccepted) {
		return shared.NewStateError(fmt.Sprintf("Cannot accept estimate in %s status", e.Status))
	}

	now := time.Now()
	e.Status = EstimateStatusAccepted
	e.AcceptedAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEstimateAcceptedEvent(e))

	return nil
}

// Decline marks a sent estimate as declined by the customer
func (e *Estimate) Decline() error {
	if !e.Status.CanTransitionTo(EstimateStatusDeclined) {
		return shared.NewStateError(fmt.Sprintf("Cannot decline estimate in %s status", e.Status))
	}

	now := time.Now()
	e.Status = EstimateStatusDeclined
	e.DeclinedAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEstimateDeclinedEvent(e))

	return nil
}

// Expire applies the time-triggered sent-to-expired transition. The status
// is persisted explicitly; it is never derived ad hoc at read time from the
// expiry date.
func (e *Estimate) Expire(asOf time.Time) error {
	if !e.Status.CanTransitionTo(EstimateStatusExpired) {
		return shared.NewStateError(fmt.Sprintf("Cannot expire estimate in %s status", e.Status))
	}
	if e.ExpiryDate == nil {
		return shared.NewStateError("Estimate has no expiry date")
	}
	if !asOf.After(*e.ExpiryDate) {
		return shared.NewStateError("Estimate has not passed its expiry date")
	}

	now := time.Now()
	e.Status = EstimateStatusExpired
	e.ExpiredAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEstimateExpiredEvent(e))

	return nil
}

// IsExpirable reports whether the time-triggered expiry applies as of the
// given instant.
func (e *Estimate) IsExpirable(asOf time.Time) bool {
	return e.Status == EstimateStatusSent && e.ExpiryDate != nil && asOf.After(*e.ExpiryDate)
}

// MarkInvoiced records the conversion into a sales invoice (terminal)
func (e *Estimate) MarkInvoiced(invoiceID uuid.UUID) error {
	if !e.Status.CanTransitionTo(EstimateStatusInvoiced) {
		return shared.NewStateError(fmt.Sprintf("Cannot convert estimate in %s status", e.Status))
	}
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("Invoice ID cannot be empty")
	}

	now := time.Now()
	e.Status = EstimateStatusInvoiced
	e.InvoiceID = &invoiceID
	e.InvoicedAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEstimateInvoicedEvent(e, invoiceID))

	return nil
}

// IsSent returns true once a number has been assigned
func (e *Estimate) IsSent() bool {
	return e.EstimateNumber != ""
}

// LineCount returns the number of lines
func (e *Estimate) LineCount() int {
	return len(e.Lines)
}

// recalculate re-derives every line's tax split and rebuilds the totals
func (e *Estimate) recalculate() error {
	for i := range e.Lines {
		if err := e.Lines[i].applyTaxes(e.CompanyState, e.PlaceOfSupply, e.TaxRate); err != nil {
			return err
		}
	}
	totals := AggregateTotals(e.Lines)
	e.Subtotal = totals.Subtotal
	e.TotalTax = totals.TotalTax
	e.TotalAmount = totals.TotalAmount
	return nil
}
