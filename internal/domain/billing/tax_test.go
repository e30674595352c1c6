package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================
// TaxKind Tests
// ============================================

func TestTaxKind_IsValid(t *testing.T) {
	tests := []struct {
		kind    TaxKind
		isValid bool
	}{
		{TaxKindIGST, true},
		{TaxKindCGST, true},
		{TaxKindSGST, true},
		{TaxKind("VAT"), false},
		{TaxKind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.kind.IsValid())
		})
	}
}

// ============================================
// SplitTax Tests
// ============================================

func TestSplitTax_InterState(t *testing.T) {
	components, err := SplitTax(d("1000"), "KA", "MH", d("18"))
	require.NoError(t, err)

	require.Len(t, components, 1)
	assert.Equal(t, TaxKindIGST, components[0].Kind)
	assert.True(t, components[0].Rate.Equal(d("18")))
	assert.True(t, components[0].Amount.Equal(d("180")), "got %s", components[0].Amount)
}

func TestSplitTax_IntraState(t *testing.T) {
	components, err := SplitTax(d("1000"), "KA", "KA", d("18"))
	require.NoError(t, err)

	require.Len(t, components, 2)
	assert.Equal(t, TaxKindCGST, components[0].Kind)
	assert.Equal(t, TaxKindSGST, components[1].Kind)
	assert.True(t, components[0].Rate.Equal(d("9")))
	assert.True(t, components[1].Rate.Equal(d("9")))
	assert.True(t, components[0].Amount.Equal(d("90")))
	assert.True(t, components[1].Amount.Equal(d("90")))
}

func TestSplitTax_IntraStateRoundsPerComponent(t *testing.T) {
	// 10.10 * 2.5% = 0.2525 -> 0.25 per component, so the split total is
	// 0.50. Rounding the full 5% tax first (0.505 -> 0.51) and halving
	// would disagree; per-component rounding is the contract.
	components, err := SplitTax(d("10.10"), "KA", "KA", d("5"))
	require.NoError(t, err)

	require.Len(t, components, 2)
	assert.True(t, components[0].Amount.Equal(d("0.25")), "CGST got %s", components[0].Amount)
	assert.True(t, components[1].Amount.Equal(d("0.25")), "SGST got %s", components[1].Amount)
	assert.True(t, components.Total().Equal(d("0.50")))
}

func TestSplitTax_RoundingHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		rate     string
		issuer   string
		party    string
		want     map[TaxKind]string
	}{
		{
			name:     "igst half rounds up",
			subtotal: "102.50",
			rate:     "5",
			issuer:   "KA",
			party:    "MH",
			// 102.50 * 5% = 5.125 -> 5.13
			want: map[TaxKind]string{TaxKindIGST: "5.13"},
		},
		{
			name:     "cgst sgst each round up",
			subtotal: "205",
			rate:     "5",
			issuer:   "DL",
			party:    "DL",
			// 205 * 2.5% = 5.125 -> 5.13 per component
			want: map[TaxKind]string{TaxKindCGST: "5.13", TaxKindSGST: "5.13"},
		},
		{
			name:     "below half rounds down",
			subtotal: "100.02",
			rate:     "18",
			issuer:   "KA",
			party:    "MH",
			// 100.02 * 18% = 18.0036 -> 18.00
			want: map[TaxKind]string{TaxKindIGST: "18.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components, err := SplitTax(d(tt.subtotal), tt.issuer, tt.party, d(tt.rate))
			require.NoError(t, err)
			require.Len(t, components, len(tt.want))
			for kind, amount := range tt.want {
				assert.True(t, components.AmountOf(kind).Equal(d(amount)),
					"%s: want %s got %s", kind, amount, components.AmountOf(kind))
			}
		})
	}
}

func TestSplitTax_ZeroSubtotalKeepsComponentSet(t *testing.T) {
	interState, err := SplitTax(decimal.Zero, "KA", "MH", d("18"))
	require.NoError(t, err)
	require.Len(t, interState, 1)
	assert.True(t, interState[0].Amount.IsZero())

	intraState, err := SplitTax(decimal.Zero, "KA", "KA", d("18"))
	require.NoError(t, err)
	require.Len(t, intraState, 2)
	assert.True(t, intraState.Total().IsZero())
}

func TestSplitTax_ZeroRate(t *testing.T) {
	components, err := SplitTax(d("1000"), "KA", "KA", decimal.Zero)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.True(t, components.Total().IsZero())
}

func TestSplitTax_Validation(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		issuer   string
		party    string
		rate     string
	}{
		{"negative subtotal", "-1", "KA", "MH", "18"},
		{"negative rate", "100", "KA", "MH", "-5"},
		{"empty issuer", "100", "", "MH", "18"},
		{"empty party", "100", "KA", "", "18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitTax(d(tt.subtotal), tt.issuer, tt.party, d(tt.rate))
			assert.Error(t, err)
		})
	}
}

// ============================================
// TaxComponents Tests
// ============================================

func TestTaxComponents_Total(t *testing.T) {
	components := TaxComponents{
		{Kind: TaxKindCGST, Rate: d("9"), Amount: d("45.50")},
		{Kind: TaxKindSGST, Rate: d("9"), Amount: d("45.50")},
	}
	assert.True(t, components.Total().Equal(d("91.00")))
}

func TestTaxComponents_AmountOf(t *testing.T) {
	components := TaxComponents{
		{Kind: TaxKindCGST, Rate: d("9"), Amount: d("45.50")},
		{Kind: TaxKindSGST, Rate: d("9"), Amount: d("45.50")},
	}
	assert.True(t, components.AmountOf(TaxKindCGST).Equal(d("45.50")))
	assert.True(t, components.AmountOf(TaxKindIGST).IsZero())
}

func TestTaxComponents_ScanRoundTrip(t *testing.T) {
	components := TaxComponents{
		{Kind: TaxKindIGST, Rate: d("18"), Amount: d("180")},
	}

	value, err := components.Value()
	require.NoError(t, err)

	var scanned TaxComponents
	require.NoError(t, scanned.Scan(value))
	require.Len(t, scanned, 1)
	assert.Equal(t, TaxKindIGST, scanned[0].Kind)
	assert.True(t, scanned[0].Amount.Equal(d("180")))
}

func TestTaxComponents_ScanNil(t *testing.T) {
	var scanned TaxComponents
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
