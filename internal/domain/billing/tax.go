package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TaxKind identifies a GST component. The kinds are mutually exclusive per
// document: an inter-state supply carries IGST only, an intra-state supply
// carries CGST and SGST only.
type TaxKind string

const (
	TaxKindIGST TaxKind = "IGST" // Integrated GST (inter-state)
	TaxKindCGST TaxKind = "CGST" // Central GST (intra-state)
	TaxKindSGST TaxKind = "SGST" // State GST (intra-state)
)

// IsValid checks if the tax kind is valid
func (k TaxKind) IsValid() bool {
	return k == TaxKindIGST || k == TaxKindCGST || k == TaxKindSGST
}

// String returns the string representation of TaxKind
func (k TaxKind) String() string {
	return string(k)
}

// TaxComponent is one slice of the tax levied on a line item.
// Amount is always derived from the line subtotal and the rate; it is never
// set independently.
type TaxComponent struct {
	Kind   TaxKind         `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`   // percentage applied to the line subtotal
	Amount decimal.Decimal `json:"amount"` // rounded to the smallest currency unit
}

// TaxComponents is stored as JSONB on the line item row.
type TaxComponents []TaxComponent

// Value implements driver.Valuer for GORM to store as JSONB
func (c TaxComponents) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (c *TaxComponents) Scan(value interface{}) error {
	if value == nil {
		*c = TaxComponents{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TaxComponents: unsupported type")
	}

	if len(bytes) == 0 {
		*c = TaxComponents{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Total returns the sum of all component amounts
func (c TaxComponents) Total() decimal.Decimal {
	total := decimal.Zero
	for _, tc := range c {
		total = total.Add(tc.Amount)
	}
	return total
}

// AmountOf returns the amount carried by the given kind (zero if absent)
func (c TaxComponents) AmountOf(kind TaxKind) decimal.Decimal {
	total := decimal.Zero
	for _, tc := range c {
		if tc.Kind == kind {
			total = total.Add(tc.Amount)
		}
	}
	return total
}

// Kinds returns the set of kinds present
func (c TaxComponents) Kinds() []TaxKind {
	seen := make(map[TaxKind]bool, len(c))
	kinds := make([]TaxKind, 0, len(c))
	for _, tc := range c {
		if !seen[tc.Kind] {
			seen[tc.Kind] = true
			kinds = append(kinds, tc.Kind)
		}
	}
	return kinds
}

var two = decimal.NewFromInt(2)
var hundred = decimal.NewFromInt(100)

// SplitTax computes the GST components for a line subtotal.
//
// When the issuer and counterparty jurisdictions differ the supply is
// inter-state and a single IGST component at the full rate applies.
// When they match, CGST and SGST each carry half the rate, rounded
// per component rather than by halving a pre-rounded total, so the two
// halves never drift apart by a rounding unit.
//
// A zero subtotal still yields the full component set with zero amounts,
// which keeps downstream aggregation uniform.
func SplitTax(subtotal decimal.Decimal, issuerState, partyState string, rate decimal.Decimal) (TaxComponents, error) {
	if subtotal.IsNegative() {
		return nil, shared.NewValidationError("Line subtotal cannot be negative")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Tax rate cannot be negative")
	}
	if issuerState == "" || partyState == "" {
		return nil, shared.NewValidationError("Issuer and counterparty jurisdiction codes are required")
	}

	if issuerState != partyState {
		amount := valueobject.RoundHalfUp(subtotal.Mul(rate).Div(hundred))
		return TaxComponents{
			{Kind: TaxKindIGST, Rate: rate, Amount: amount},
		}, nil
	}

	halfRate := rate.Div(two)
	halfAmount := valueobject.RoundHalfUp(subtotal.Mul(halfRate).Div(hundred))
	return TaxComponents{
		{Kind: TaxKindCGST, Rate: halfRate, Amount: halfAmount},
		{Kind: TaxKindSGST, Rate: halfRate, Amount: halfAmount},
	}, nil
}
