package billing

import (
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestBill(t *testing.T, supplierState, companyState string) *PurchaseBill {
	bill, err := NewPurchaseBill(
		uuid.New(),
		uuid.New(),
		"Sharma Supplies",
		supplierState,
		companyState,
		d("18"),
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		nil,
	)
	require.NoError(t, err)
	return bill
}

func createSubmittedBill(t *testing.T) *PurchaseBill {
	bill := createTestBill(t, "MH", "KA")
	_, err := bill.AddLine(nil, "Raw materials", "3901", d("100"), payINR(10))
	require.NoError(t, err)
	require.NoError(t, bill.Submit("BILL-2025-26-00001"))
	return bill
}

// ============================================
// BillStatus Tests
// ============================================

func TestBillStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BillStatus
		to      BillStatus
		allowed bool
	}{
		{BillStatusDraft, BillStatusSubmitted, true},
		{BillStatusDraft, BillStatusVoid, true},
		{BillStatusDraft, BillStatusPaid, false},
		{BillStatusSubmitted, BillStatusPartiallyPaid, true},
		{BillStatusSubmitted, BillStatusPaid, true},
		{BillStatusSubmitted, BillStatusVoid, true},
		{BillStatusPartiallyPaid, BillStatusPaid, true},
		{BillStatusPaid, BillStatusVoid, false},
		{BillStatusVoid, BillStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// PurchaseBill Tests
// ============================================

func TestPurchaseBill_TaxUsesSupplierAsIssuer(t *testing.T) {
	// supplier in MH, company in KA: inter-state, IGST
	interBill := createTestBill(t, "MH", "KA")
	_, err := interBill.AddLine(nil, "Materials", "3901", d("1"), payINR(1000))
	require.NoError(t, err)
	assert.True(t, interBill.TaxTotalsByKind()[TaxKindIGST].Equal(d("180")))

	// both in KA: intra-state, CGST+SGST
	intraBill := createTestBill(t, "KA", "KA")
	_, err = intraBill.AddLine(nil, "Materials", "3901", d("1"), payINR(1000))
	require.NoError(t, err)
	byKind := intraBill.TaxTotalsByKind()
	assert.True(t, byKind[TaxKindCGST].Equal(d("90")))
	assert.True(t, byKind[TaxKindSGST].Equal(d("90")))
}

func TestPurchaseBill_Submit(t *testing.T) {
	bill := createTestBill(t, "MH", "KA")
	_, err := bill.AddLine(nil, "Raw materials", "3901", d("100"), payINR(10))
	require.NoError(t, err)

	require.NoError(t, bill.Submit("BILL-2025-26-00042"))

	assert.Equal(t, BillStatusSubmitted, bill.Status)
	assert.Equal(t, "BILL-2025-26-00042", bill.BillNumber)
	assert.True(t, bill.IsSubmitted())
	assert.True(t, bill.TotalAmount.Equal(d("1180")))
}

func TestPurchaseBill_Submit_OnlyOnce(t *testing.T) {
	bill := createSubmittedBill(t)

	err := bill.Submit("BILL-2025-26-00002")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidState))
	assert.Equal(t, "BILL-2025-26-00001", bill.BillNumber)
}

func TestPurchaseBill_Submit_RequiresLines(t *testing.T) {
	bill := createTestBill(t, "MH", "KA")

	err := bill.Submit("BILL-2025-26-00001")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
}

func TestPurchaseBill_Submit_RejectsZeroTotal(t *testing.T) {
	bill := createTestBill(t, "MH", "KA")
	_, err := bill.AddLine(nil, "Free samples", "3901", d("5"), payINR(0))
	require.NoError(t, err)

	err = bill.Submit("BILL-2025-26-00001")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	assert.Equal(t, BillStatusDraft, bill.Status)
	assert.Empty(t, bill.BillNumber)
}

func TestPurchaseBill_SetSupplierBillNumber(t *testing.T) {
	bill := createTestBill(t, "MH", "KA")

	require.NoError(t, bill.SetSupplierBillNumber("SS/1029"))
	assert.Equal(t, "SS/1029", bill.SupplierBillNumber)
}

func TestPurchaseBill_ApplyPayment(t *testing.T) {
	bill := createSubmittedBill(t) // total 1180

	_, err := bill.ApplyPayment(payINR(1000), time.Now(), PaymentMethodBankTransfer, "NEFT-9", "")
	require.NoError(t, err)
	assert.Equal(t, BillStatusPartiallyPaid, bill.Status)
	assert.True(t, bill.Outstanding().Equal(d("180")))

	_, err = bill.ApplyPayment(payINR(180), time.Now(), PaymentMethodBankTransfer, "NEFT-10", "")
	require.NoError(t, err)
	assert.Equal(t, BillStatusPaid, bill.Status)
	assert.NotNil(t, bill.PaidAt)
}

func TestPurchaseBill_ApplyPayment_Overpayment(t *testing.T) {
	bill := createSubmittedBill(t)

	_, err := bill.ApplyPayment(payINR(2000), time.Now(), PaymentMethodCash, "", "")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeOverpayment))
	assert.True(t, bill.AmountPaid.IsZero())
}

func TestPurchaseBill_ApplyPayment_DraftRejected(t *testing.T) {
	bill := createTestBill(t, "MH", "KA")

	_, err := bill.ApplyPayment(payINR(10), time.Now(), PaymentMethodCash, "", "")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidState))
}

func TestPurchaseBill_Void(t *testing.T) {
	draft := createTestBill(t, "MH", "KA")
	require.NoError(t, draft.Void("duplicate entry"))
	events := draft.GetDomainEvents()
	voided, ok := events[len(events)-1].(*PurchaseBillVoidedEvent)
	require.True(t, ok)
	assert.False(t, voided.WasSubmitted)

	submitted := createSubmittedBill(t)
	require.NoError(t, submitted.Void("supplier error"))
	events = submitted.GetDomainEvents()
	voided, ok = events[len(events)-1].(*PurchaseBillVoidedEvent)
	require.True(t, ok)
	assert.True(t, voided.WasSubmitted)
	assert.Equal(t, "BILL-2025-26-00001", submitted.BillNumber)
}

func TestPurchaseBill_Void_PaidRejected(t *testing.T) {
	bill := createSubmittedBill(t)
	_, err := bill.ApplyPayment(payINR(1180), time.Now(), PaymentMethodCash, "", "")
	require.NoError(t, err)

	err = bill.Void("too late")
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidState))
}
