package billing

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the status of a purchase bill
type BillStatus string

const (
	BillStatusDraft         BillStatus = "DRAFT"
	BillStatusSubmitted     BillStatus = "SUBMITTED"
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillStatusPaid          BillStatus = "PAID"
	BillStatusVoid          BillStatus = "VOID"
)

// billTransitions is the fixed adjacency table of legal transitions
var billTransitions = map[BillStatus][]BillStatus{
	BillStatusDraft:         {BillStatusSubmitted, BillStatusVoid},
	BillStatusSubmitted:     {BillStatusPartiallyPaid, BillStatusPaid, BillStatusVoid},
	BillStatusPartiallyPaid: {BillStatusPaid, BillStatusVoid},
	BillStatusPaid:          {},
	BillStatusVoid:          {},
}

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	_, ok := billTransitions[s]
	return ok
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// CanTransitionTo checks the adjacency table for a legal transition
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	for _, t := range billTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the bill is in a terminal state
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusVoid
}

// CanApplyPayment returns true if payments can be applied in this status
func (s BillStatus) CanApplyPayment() bool {
	return s == BillStatusSubmitted || s == BillStatusPartiallyPaid
}

// PurchaseBill is the aggregate root for a supplier bill. The supplier is
// the issuer, so the tax split compares the supplier's state against the
// company's state; the derivation is otherwise identical to a sales invoice.
type PurchaseBill struct {
	shared.TenantAggregateRoot
	BillNumber         string // internal number, empty until submitted
	SupplierBillNumber string // the supplier's own invoice reference, optional
	SupplierID         uuid.UUID
	SupplierName       string
	SupplierState      string // issuer jurisdiction code
	CompanyState       string // counterparty jurisdiction code
	TaxRate            decimal.Decimal
	IssueDate          time.Time
	DueDate            *time.Time
	Lines              []LineItem
	Subtotal           decimal.Decimal
	TotalTax           decimal.Decimal
	TotalAmount        decimal.Decimal
	AmountPaid         decimal.Decimal
	Status             BillStatus
	Payments           Payments
	Notes              string
	SubmittedAt        *time.Time
	PaidAt             *time.Time
	VoidedAt           *time.Time
	VoidReason         string
}

// NewPurchaseBill creates a new draft purchase bill
func NewPurchaseBill(tenantID, supplierID uuid.UUID, supplierName, supplierState, companyState string, taxRate decimal.Decimal, issueDate time.Time, dueDate *time.Time) (*PurchaseBill, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}
	if supplierState == "" {
		return nil, shared.NewValidationError("Supplier jurisdiction code cannot be empty")
	}
	if companyState == "" {
		return nil, shared.NewValidationError("Company jurisdiction code cannot be empty")
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

	bill := &PurchaseBill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		SupplierState:       supplierState,
		CompanyState:        companyState,
		TaxRate:             taxRate,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Lines:               make([]LineItem, 0),
		Subtotal:            decimal.Zero,
		TotalTax:            decimal.Zero,
		TotalAmount:         decimal.Zero,
		AmountPaid:          decimal.Zero,
		Status:              BillStatusDraft,
		Payments:            Payments{},
	}

	bill.AddDomainEvent(NewPurchaseBillCreatedEvent(bill))

	return bill, nil
}

// CanModify returns true if lines may be added, edited or removed
func (b *PurchaseBill) CanModify() bool {
	return b.Status == BillStatusDraft
}

// SetSupplierBillNumber records the supplier's own invoice reference
func (b *PurchaseBill) SetSupplierBillNumber(number string) error {
	if b.Status.IsTerminal() {
		return shared.NewStateError("Cannot modify a terminal bill")
	}
	b.SupplierBillNumber = number
	b.UpdatedAt = time.Now()
	return nil
}

// AddLine appends a line item, derives its tax split and recomputes totals
func (b *PurchaseBill) AddLine(productID *uuid.UUID, description, hsnCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if !b.CanModify() {
		return nil, shared.NewStateError("Cannot add lines to a non-draft bill")
	}

	line, err := NewLineItem(b.ID, len(b.Lines)+1, productID, description, hsnCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	b.Lines = append(b.Lines, *line)
	if err := b.recalculate(); err != nil {
		b.Lines = b.Lines[:len(b.Lines)-1]
		return nil, err
	}
	b.UpdatedAt = time.Now()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line
func (b *PurchaseBill) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if !b.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft bill")
	}
	for idx := range b.Lines {
		if b.Lines[idx].ID == lineID {
			if err := b.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			if err := b.recalculate(); err != nil {
				return err
			}
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Bill line not found")
}

// UpdateLineUnitPrice updates the unit price of an existing line
func (b *PurchaseBill) UpdateLineUnitPrice(lineID uuid.UUID, unitPrice valueobject.Money) error {
	if !b.CanModify() {
		return shared.NewStateError("Cannot update lines of a non-draft bill")
	}
	for idx := range b.Lines {
		if b.Lines[idx].ID == lineID {
			if err := b.Lines[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			if err := b.recalculate(); err != nil {
				return err
			}
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Bill line not found")
}

// RemoveLine removes a line and renumbers the remaining positions
func (b *PurchaseBill) RemoveLine(lineID uuid.UUID) error {
	if !b.CanModify() {
		return shared.NewStateError("Cannot remove lines from a non-draft bill")
	}
	for idx, line := range b.Lines {
		if line.ID == lineID {
			b.Lines = append(b.Lines[:idx], b.Lines[idx+1:]...)
			for i := range b.Lines {
				b.Lines[i].Position = i + 1
			}
			if err := b.recalculate(); err != nil {
				return err
			}
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Bill line not found")
}

// ReplaceLines swaps the whole line set in one edit (draft only)
func (b *PurchaseBill) ReplaceLines(lines []LineItem) error {
	if !b.CanModify() {
		return shared.NewStateError("Cannot replace lines of a non-draft bill")
	}
	b.Lines = make([]LineItem, len(lines))
	copy(b.Lines, lines)
	for i := range b.Lines {
		b.Lines[i].DocumentID = b.ID
		b.Lines[i].Position = i + 1
	}
	if err := b.recalculate(); err != nil {
		return err
	}
	b.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the bill notes
func (b *PurchaseBill) SetNotes(notes string) error {
	if b.Status.IsTerminal() {
		return shared.NewStateError("Cannot modify a terminal bill")
	}
	b.Notes = notes
	b.UpdatedAt = time.Now()
	return nil
}

// Submit assigns the permanent internal bill number and moves draft to
// submitted. The number is assigned exactly once and never reassigned.
func (b *PurchaseBill) Submit(billNumber string) error {
	if !b.Status.CanTransitionTo(BillStatusSubmitted) {
		return shared.NewStateError(fmt.Sprintf("Cannot submit bill in %s status", b.Status))
	}
	if b.BillNumber != "" {
		return shared.NewStateError("Bill number has already been assigned")
	}
	if billNumber == "" {
		return shared.NewValidationError("Bill number cannot be empty")
	}
	if len(b.Lines) == 0 {
		return shared.NewValidationError("Cannot submit a bill without lines")
	}
	if err := b.recalculate(); err != nil {
		return err
	}
	// A zero-total bill has nothing to post; it stays a draft until it
	// carries a charge.
	if !b.TotalAmount.IsPositive() {
		return shared.NewValidationError("Cannot submit a bill with a zero total")
	}

	now := time.Now()
	b.BillNumber = billNumber
	b.Status = BillStatusSubmitted
	b.SubmittedAt = &now
	b.UpdatedAt = now

	b.AddDomainEvent(NewPurchaseBillSubmittedEvent(b))

	return nil
}

// ApplyPayment records an append-only payment and recomputes the status
func (b *PurchaseBill) ApplyPayment(amount valueobject.Money, paymentDate time.Time, method PaymentMethod, reference, notes string) (*Payment, error) {
	if !b.Status.CanApplyPayment() {
		return nil, shared.NewStateError(fmt.Sprintf("Cannot apply payment to bill in %s status", b.Status))
	}

	payment, err := NewPayment(amount, paymentDate, method, reference, notes)
	if err != nil {
		return nil, err
	}

	outstanding := b.TotalAmount.Sub(b.AmountPaid)
	if payment.Amount.GreaterThan(outstanding) {
		return nil, shared.NewDomainError(shared.CodeOverpayment,
			fmt.Sprintf("Payment of %s exceeds outstanding balance of %s", payment.Amount.StringFixed(2), outstanding.StringFixed(2)))
	}

	b.Payments = append(b.Payments, *payment)
	b.AmountPaid = b.AmountPaid.Add(payment.Amount)

	now := time.Now()
	if b.AmountPaid.GreaterThanOrEqual(b.TotalAmount) {
		b.Status = BillStatusPaid
		b.PaidAt = &now
		b.AddDomainEvent(NewPurchaseBillPaidEvent(b))
	} else {
		b.Status = BillStatusPartiallyPaid
		b.AddDomainEvent(NewPurchaseBillPaymentAppliedEvent(b, payment))
	}
	b.UpdatedAt = now

	return payment, nil
}

// Void cancels the bill. A submitted bill keeps its number and gets a
// reversing journal entry.
func (b *PurchaseBill) Void(reason string) error {
	if !b.Status.CanTransitionTo(BillStatusVoid) {
		return shared.NewStateError(fmt.Sprintf("Cannot void bill in %s status", b.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Void reason is required")
	}

	now := time.Now()
	wasSubmitted := b.BillNumber != ""
	b.Status = BillStatusVoid
	b.VoidedAt = &now
	b.VoidReason = reason
	b.UpdatedAt = now

	b.AddDomainEvent(NewPurchaseBillVoidedEvent(b, wasSubmitted))

	return nil
}

// Outstanding returns the balance still due
func (b *PurchaseBill) Outstanding() decimal.Decimal {
	return b.TotalAmount.Sub(b.AmountPaid)
}

// IsSubmitted returns true once a number has been assigned
func (b *PurchaseBill) IsSubmitted() bool {
	return b.BillNumber != ""
}

// TaxTotalsByKind returns the per-kind tax totals across all lines
func (b *PurchaseBill) TaxTotalsByKind() map[TaxKind]decimal.Decimal {
	return AggregateTotals(b.Lines).TaxByKind
}

// LineCount returns the number of lines
func (b *PurchaseBill) LineCount() int {
	return len(b.Lines)
}

// recalculate re-derives every line's tax split and rebuilds the totals
func (b *PurchaseBill) recalculate() error {
	for i := range b.Lines {
		if err := b.Lines[i].applyTaxes(b.SupplierState, b.CompanyState, b.TaxRate); err != nil {
			return err
		}
	}
	totals := AggregateTotals(b.Lines)
	b.Subtotal = totals.Subtotal
	b.TotalTax = totals.TotalTax
	b.TotalAmount = totals.TotalAmount
	return nil
}
