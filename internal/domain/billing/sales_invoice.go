package billing

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

// invoiceTransitions is the fixed adjacency table of legal transitions.
// Anything not listed is rejected, never clamped.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusSent, InvoiceStatusVoid},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusVoid},
	InvoiceStatusPaid:          {},
	InvoiceStatusVoid:          {},
}

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks the adjacency table for a legal transition
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range invoiceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid
}

// SalesInvoice is the aggregate root for a customer-facing tax invoice.
// Totals and tax components are always derived from the lines and the
// document-level jurisdiction pair; place of supply is document-level, so a
// single invoice can never mix inter-state and intra-state lines.
type SalesInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber    string // empty until finalized, assigned exactly once
	CustomerID       uuid.UUID
	CustomerName     string
	CompanyState     string // issuer jurisdiction code
	PlaceOfSupply    string // customer jurisdiction code
	TaxRate          decimal.Decimal
	IssueDate        time.Time
	DueDate          *time.Time
	Lines            []LineItem
	Subtotal         decimal.Decimal
	TotalTax         decimal.Decimal
	TotalAmount      decimal.Decimal
	AmountPaid       decimal.Decimal
	Status           InvoiceStatus
	Payments         Payments
	Notes            string
	SourceEstimateID *uuid.UUID // set when created through estimate conversion
	FinalizedAt      *time.Time
	PaidAt           *time.Time
	VoidedAt         *time.Time
	VoidReason       string
}

// NewSalesInvoice creates a new draft sales invoice
func NewSalesInvoice(tenantID, customerID uuid.UUID, customerName, companyState, placeOfSupply string, taxRate decimal.Decimal, issueDate time.Time, dueDate *time.Time) (*SalesInvoice, error) {
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
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, shared.NewValidationError("Due date cannot be before the issue date")
	}

	inv := &SalesInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		CustomerName:        customerName,
		CompanyState:        companyState,
		PlaceOfSupply:       placeOfSupply,
		TaxRate:             taxRate,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Lines:               make([]LineItem, 0),
		Subtotal:            decimal.Zero,
		TotalTax:            decimal.Zero,
		TotalAmount:         decimal.Zero,
		AmountPaid:          decimal.Zero,
		Status:              InvoiceStatusDraft,
		Payments:            Payments{},
	}

	inv.AddDomainEvent(NewSalesInvoiceCreatedEvent(inv))

	return inv, nil
}

// CanModify returns true if lines may be added, edited or removed.
// Draft is the only editable state; any other state requires a new document.
func (inv *SalesInvoice) CanModify() bool {
	return inv.Status == InvoiceStatusDraft
}

// AddLine appends a line item, derives its tax split and recomputes totals
func (inv *SalesInvoice) AddLine(productID *uuid.UUID, description, hsnCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if !inv.CanModify() {
		return nil, shared.NewStateError("Cannot add lines to a non-draft invoice")
	}

	line, err := NewLineItem(inv.ID, len(inv.Lines)+1, productID, description, hsnCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	inv.Lines = append(inv.Lines, *line)
	if err := inv.recalculate(); err != nil {
		inv.Lines = inv.Lines[:len(inv.Lines)-1]
		return nil, err
	}
	inv.UpdatedAt = time.Now()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line
func (inv *SalesInvoice) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if !inv.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft invoice")
	}
	for idx := range inv.Lines {
		if inv.Lines[idx].ID == lineID {
			if err := inv.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			if err := inv.recalculate(); err != nil {
				return err
			}
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Invoice line not found")
}

// UpdateLineUnitPrice updates the unit price of an existing line
func (inv *SalesInvoice) UpdateLineUnitPrice(lineID uuid.UUID, unitPrice valueobject.Money) error {
	if !inv.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft invoice")
	}
	for idx := range inv.Lines {
		if inv.Lines[idx].ID == lineID {
			if err := inv.Lines[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			if err := inv.recalculate(); err != nil {
				return err
			}
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Invoice line not found")
}

// RemoveLine removes a line and renumbers the remaining positions
func (inv *SalesInvoice) RemoveLine(lineID uuid.UUID) error {
	if !inv.CanModify() {
		return shared.NewStateError("Cannot remove lines from a non-draft invoice")
	}
	for idx, line := range inv.Lines {
		if line.ID == lineID {
			inv.Lines = append(inv.Lines[:idx], inv.Lines[idx+1:]...)
			for i := range inv.Lines {
				inv.Lines[i].Position = i + 1
			}
			if err := inv.recalculate(); err != nil {
				return err
			}
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Invoice line not found")
}

// ReplaceLines swaps the whole line set in one edit (draft only).
// Used by the submit entry points which send the full document each time.
func (inv *SalesInvoice) ReplaceLines(lines []LineItem) error {
	if !inv.CanModify() {
		return shared.NewStateError("Cannot replace lines of a non-draft invoice")
	}
	inv.Lines = make([]LineItem, len(lines))
	copy(inv.Lines, lines)
	for i := range inv.Lines {
		inv.Lines[i].DocumentID = inv.ID
		inv.Lines[i].Position = i + 1
	}
	if err := inv.recalculate(); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the invoice notes
func (inv *SalesInvoice) SetNotes(notes string) error {
	if inv.Status.IsTerminal() {
		return shared.NewStateError("Cannot modify a terminal invoice")
	}
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	return nil
}

// Finalize assigns the permanent invoice number and moves draft to sent.
// The number is assigned exactly once and never reassigned; totals and the
// per-line tax split are re-derived first, so every line carries the same
// IGST-or-CGST/SGST profile by construction.
func (inv *SalesInvoice) Finalize(invoiceNumber string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewStateError(fmt.Sprintf("Cannot finalize invoice in %s status", inv.Status))
	}
	if inv.InvoiceNumber != "" {
		return shared.NewStateError("Invoice number has already been assigned")
	}
	if invoiceNumber == "" {
		return shared.NewValidationError("Invoice number cannot be empty")
	}
	if len(inv.Lines) == 0 {
		return shared.NewValidationError("Cannot finalize an invoice without lines")
	}
	if err := inv.recalculate(); err != nil {
		return err
	}
	// A zero-total invoice has nothing to post; it stays a draft until it
	// carries a charge.
	if !inv.TotalAmount.IsPositive() {
		return shared.NewValidationError("Cannot finalize an invoice with a zero total")
	}

	now := time.Now()
	inv.InvoiceNumber = invoiceNumber
	inv.Status = InvoiceStatusSent
	inv.FinalizedAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewSalesInvoiceFinalizedEvent(inv))

	return nil
}

// ApplyPayment records an append-only payment and recomputes the status.
// Preconditions: the invoice is payable and the amount does not exceed the
// outstanding balance. On violation the invoice is left unchanged.
func (inv *SalesInvoice) ApplyPayment(amount valueobject.Money, paymentDate time.Time, method PaymentMethod, reference, notes string) (*Payment, error) {
	if !inv.Status.CanApplyPayment() {
		return nil, shared.NewStateError(fmt.Sprintf("Cannot apply payment to invoice in %s status", inv.Status))
	}

	payment, err := NewPayment(amount, paymentDate, method, reference, notes)
	if err != nil {
		return nil, err
	}

	outstanding := inv.TotalAmount.Sub(inv.AmountPaid)
	if payment.Amount.GreaterThan(outstanding) {
		return nil, shared.NewDomainError(shared.CodeOverpayment,
			fmt.Sprintf("Payment of %s exceeds outstanding balance of %s", payment.Amount.StringFixed(2), outstanding.StringFixed(2)))
	}

	inv.Payments = append(inv.Payments, *payment)
	inv.AmountPaid = inv.AmountPaid.Add(payment.Amount)

	now := time.Now()
	if inv.AmountPaid.GreaterThanOrEqual(inv.TotalAmount) {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewSalesInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
		inv.AddDomainEvent(NewSalesInvoicePaymentAppliedEvent(inv, payment))
	}
	inv.UpdatedAt = now

	return payment, nil
}

// Void cancels the invoice. Terminal states cannot be voided; a finalized
// invoice keeps its number and gets a reversing journal entry.
func (inv *SalesInvoice) Void(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusVoid) {
		return shared.NewStateError(fmt.Sprintf("Cannot void invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Void reason is required")
	}

	now := time.Now()
	wasFinalized := inv.InvoiceNumber != ""
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewSalesInvoiceVoidedEvent(inv, wasFinalized))

	return nil
}

// Outstanding returns the balance still due
func (inv *SalesInvoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.AmountPaid)
}

// IsFinalized returns true once a number has been assigned
func (inv *SalesInvoice) IsFinalized() bool {
	return inv.InvoiceNumber != ""
}

// TaxTotalsByKind returns the per-kind tax totals across all lines
func (inv *SalesInvoice) TaxTotalsByKind() map[TaxKind]decimal.Decimal {
	return AggregateTotals(inv.Lines).TaxByKind
}

// LineCount returns the number of lines
func (inv *SalesInvoice) LineCount() int {
	return len(inv.Lines)
}

// recalculate re-derives every line's tax split from the document
// jurisdiction pair and rebuilds the totals from scratch
func (inv *SalesInvoice) recalculate() error {
	for i := range inv.Lines {
		if err := inv.Lines[i].applyTaxes(inv.CompanyState, inv.PlaceOfSupply, inv.TaxRate); err != nil {
			return err
		}
	}
	totals := AggregateTotals(inv.Lines)
	inv.Subtotal = totals.Subtotal
	inv.TotalTax = totals.TotalTax
	inv.TotalAmount = totals.TotalAmount
	return nil
}
