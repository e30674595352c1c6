package billing

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents a priced line on an estimate, invoice or bill.
// It is owned exclusively by its parent document and destroyed with it.
type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Position    int // display order, preserved across edits
	ProductID   *uuid.UUID
	Description string
	HSNCode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice, rounded to the currency unit
	Taxes       TaxComponents
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLineItem creates a new line item. Tax components are not computed here;
// the parent document derives them from its jurisdiction pair.
func NewLineItem(documentID uuid.UUID, position int, productID *uuid.UUID, description, hsnCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewValidationError("Line description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewValidationError("Line description cannot exceed 500 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if productID != nil && *productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be the zero UUID")
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Position:    position,
		ProductID:   productID,
		Description: description,
		HSNCode:     hsnCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Subtotal:    valueobject.RoundHalfUp(quantity.Mul(unitPrice.Amount())),
		Taxes:       TaxComponents{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the quantity and recomputes the line subtotal.
// The parent document must re-derive taxes and totals afterwards.
func (l *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	l.Quantity = quantity
	l.Subtotal = valueobject.RoundHalfUp(l.Quantity.Mul(l.UnitPrice))
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the line subtotal
func (l *LineItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.Amount().IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	l.UnitPrice = unitPrice.Amount()
	l.Subtotal = valueobject.RoundHalfUp(l.Quantity.Mul(l.UnitPrice))
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateDescription updates the description
func (l *LineItem) UpdateDescription(description string) error {
	if description == "" {
		return shared.NewValidationError("Line description cannot be empty")
	}
	l.Description = description
	l.UpdatedAt = time.Now()
	return nil
}

// applyTaxes derives the component set from the document's jurisdiction pair
func (l *LineItem) applyTaxes(issuerState, partyState string, rate decimal.Decimal) error {
	taxes, err := SplitTax(l.Subtotal, issuerState, partyState, rate)
	if err != nil {
		return err
	}
	l.Taxes = taxes
	l.UpdatedAt = time.Now()
	return nil
}

// TaxTotal returns the total tax carried by this line
func (l *LineItem) TaxTotal() decimal.Decimal {
	return l.Taxes.Total()
}

// DocumentTotals is the authoritative aggregate of a document's lines.
type DocumentTotals struct {
	Subtotal    decimal.Decimal
	TotalTax    decimal.Decimal
	TotalAmount decimal.Decimal
	TaxByKind   map[TaxKind]decimal.Decimal
}

// AggregateTotals recomputes document totals from scratch. It is invoked
// after every line mutation, before persistence; totals are never patched
// incrementally so cached and derived values cannot drift. The line order
// itself is left untouched - it is a display-relevant sequence.
func AggregateTotals(lines []LineItem) DocumentTotals {
	totals := DocumentTotals{
		Subtotal:  decimal.Zero,
		TotalTax:  decimal.Zero,
		TaxByKind: make(map[TaxKind]decimal.Decimal),
	}
	for _, line := range lines {
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		for _, tc := range line.Taxes {
			totals.TotalTax = totals.TotalTax.Add(tc.Amount)
			existing, ok := totals.TaxByKind[tc.Kind]
			if !ok {
				existing = decimal.Zero
			}
			totals.TaxByKind[tc.Kind] = existing.Add(tc.Amount)
		}
	}
	totals.TotalAmount = totals.Subtotal.Add(totals.TotalTax)
	return totals
}
