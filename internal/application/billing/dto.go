package billing

import (
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Line DTOs ====================

// LineItemInput represents one document line in a create or update request
type LineItemInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	HSNCode     string          `json:"hsn_code" binding:"max=10"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	// TaxAmount is optional and only checked, never trusted: the server
	// re-derives the split and rejects a mismatch beyond rounding tolerance
	TaxAmount *decimal.Decimal `json:"tax_amount"`
}

// LineItemResponse represents a document line in responses
type LineItemResponse struct {
	ID          uuid.UUID             `json:"id"`
	Position    int                   `json:"position"`
	ProductID   *uuid.UUID            `json:"product_id,omitempty"`
	Description string                `json:"description"`
	HSNCode     string                `json:"hsn_code,omitempty"`
	Quantity    decimal.Decimal       `json:"quantity"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	Taxes       billing.TaxComponents `json:"taxes"`
	TaxTotal    decimal.Decimal       `json:"tax_total"`
}

// ToLineItemResponse converts a domain line item to a response DTO
func ToLineItemResponse(line billing.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          line.ID,
		Position:    line.Position,
		ProductID:   line.ProductID,
		Description: line.Description,
		HSNCode:     line.HSNCode,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Subtotal:    line.Subtotal,
		Taxes:       line.Taxes,
		TaxTotal:    line.TaxTotal(),
	}
}

func toLineItemResponses(lines []billing.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(lines))
	for i, line := range lines {
		out[i] = ToLineItemResponse(line)
	}
	return out
}

// ==================== Payment DTOs ====================

// ApplyPaymentRequest represents a request to record a payment against a document
type ApplyPaymentRequest struct {
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	PaymentDate time.Time             `json:"payment_date" binding:"required"`
	Method      billing.PaymentMethod `json:"method" binding:"required"`
	Reference   string                `json:"reference" binding:"max=100"`
	Notes       string                `json:"notes" binding:"max=500"`
}

// PaymentResponse represents a recorded payment
type PaymentResponse struct {
	ID          uuid.UUID             `json:"id"`
	Amount      decimal.Decimal       `json:"amount"`
	PaymentDate time.Time             `json:"payment_date"`
	Method      billing.PaymentMethod `json:"method"`
	Reference   string                `json:"reference,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	RecordedAt  time.Time             `json:"recorded_at"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Method:      p.Method,
		Reference:   p.Reference,
		Notes:       p.Notes,
		RecordedAt:  p.RecordedAt,
	}
}

func toPaymentResponses(payments billing.Payments) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = ToPaymentResponse(p)
	}
	return out
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create a draft sales invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID        `json:"customer_id" binding:"required"`
	IssueDate  time.Time        `json:"issue_date" binding:"required"`
	DueDate    *time.Time       `json:"due_date"`
	TaxRate    *decimal.Decimal `json:"tax_rate"` // default rate when omitted
	Lines      []LineItemInput  `json:"lines"`
	Notes      string           `json:"notes" binding:"max=1000"`
}

// UpdateInvoiceRequest replaces the whole draft line set and notes
type UpdateInvoiceRequest struct {
	IssueDate *time.Time       `json:"issue_date"`
	DueDate   *time.Time       `json:"due_date"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	Lines     []LineItemInput  `json:"lines" binding:"required,min=1"`
	Notes     *string          `json:"notes"`
}

// SubmitInvoiceRequest is the one-shot entry point: create or update the
// draft and finalize it in a single transaction
type SubmitInvoiceRequest struct {
	InvoiceID  *uuid.UUID       `json:"invoice_id"` // update this draft when set
	CustomerID uuid.UUID        `json:"customer_id" binding:"required"`
	IssueDate  time.Time        `json:"issue_date" binding:"required"`
	DueDate    *time.Time       `json:"due_date"`
	TaxRate    *decimal.Decimal `json:"tax_rate"`
	Lines      []LineItemInput  `json:"lines" binding:"required,min=1"`
	Notes      string           `json:"notes" binding:"max=1000"`
}

// VoidRequest represents a request to void a document
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceResponse represents a sales invoice in responses
type InvoiceResponse struct {
	ID               uuid.UUID             `json:"id"`
	InvoiceNumber    string                `json:"invoice_number,omitempty"`
	CustomerID       uuid.UUID             `json:"customer_id"`
	CustomerName     string                `json:"customer_name"`
	CompanyState     string                `json:"company_state"`
	PlaceOfSupply    string                `json:"place_of_supply"`
	TaxRate          decimal.Decimal       `json:"tax_rate"`
	IssueDate        time.Time             `json:"issue_date"`
	DueDate          *time.Time            `json:"due_date,omitempty"`
	Status           billing.InvoiceStatus `json:"status"`
	Lines            []LineItemResponse    `json:"lines"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	TotalTax         decimal.Decimal       `json:"total_tax"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	AmountPaid       decimal.Decimal       `json:"amount_paid"`
	Outstanding      decimal.Decimal       `json:"outstanding"`
	Payments         []PaymentResponse     `json:"payments"`
	Notes            string                `json:"notes,omitempty"`
	SourceEstimateID *uuid.UUID            `json:"source_estimate_id,omitempty"`
	FinalizedAt      *time.Time            `json:"finalized_at,omitempty"`
	PaidAt           *time.Time            `json:"paid_at,omitempty"`
	VoidedAt         *time.Time            `json:"voided_at,omitempty"`
	VoidReason       string                `json:"void_reason,omitempty"`
	Version          int                   `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.SalesInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		CustomerID:       inv.CustomerID,
		CustomerName:     inv.CustomerName,
		CompanyState:     inv.CompanyState,
		PlaceOfSupply:    inv.PlaceOfSupply,
		TaxRate:          inv.TaxRate,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Status:           inv.Status,
		Lines:            toLineItemResponses(inv.Lines),
		Subtotal:         inv.Subtotal,
		TotalTax:         inv.TotalTax,
		TotalAmount:      inv.TotalAmount,
		AmountPaid:       inv.AmountPaid,
		Outstanding:      inv.Outstanding(),
		Payments:         toPaymentResponses(inv.Payments),
		Notes:            inv.Notes,
		SourceEstimateID: inv.SourceEstimateID,
		FinalizedAt:      inv.FinalizedAt,
		PaidAt:           inv.PaidAt,
		VoidedAt:         inv.VoidedAt,
		VoidReason:       inv.VoidReason,
		Version:          inv.GetVersion(),
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

// ==================== Bill DTOs ====================

// CreateBillRequest represents a request to create a draft purchase bill
type CreateBillRequest struct {
	SupplierID         uuid.UUID        `json:"supplier_id" binding:"required"`
	SupplierBillNumber string           `json:"supplier_bill_number" binding:"max=100"`
	IssueDate          time.Time        `json:"issue_date" binding:"required"`
	DueDate            *time.Time       `json:"due_date"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	Lines              []LineItemInput  `json:"lines"`
	Notes              string           `json:"notes" binding:"max=1000"`
}

// UpdateBillRequest replaces the whole draft line set and notes
type UpdateBillRequest struct {
	SupplierBillNumber *string          `json:"supplier_bill_number"`
	IssueDate          *time.Time       `json:"issue_date"`
	DueDate            *time.Time       `json:"due_date"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	Lines              []LineItemInput  `json:"lines" binding:"required,min=1"`
	Notes              *string          `json:"notes"`
}

// BillResponse represents a purchase bill in responses
type BillResponse struct {
	ID                 uuid.UUID          `json:"id"`
	BillNumber         string             `json:"bill_number,omitempty"`
	SupplierBillNumber string             `json:"supplier_bill_number,omitempty"`
	SupplierID         uuid.UUID          `json:"supplier_id"`
	SupplierName       string             `json:"supplier_name"`
	SupplierState      string             `json:"supplier_state"`
	CompanyState       string             `json:"company_state"`
	TaxRate            decimal.Decimal    `json:"tax_rate"`
	IssueDate          time.Time          `json:"issue_date"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	Status             billing.BillStatus `json:"status"`
	Lines              []LineItemResponse `json:"lines"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TotalTax           decimal.Decimal    `json:"total_tax"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	AmountPaid         decimal.Decimal    `json:"amount_paid"`
	Outstanding        decimal.Decimal    `json:"outstanding"`
	Payments           []PaymentResponse  `json:"payments"`
	Notes              string             `json:"notes,omitempty"`
	SubmittedAt        *time.Time         `json:"submitted_at,omitempty"`
	PaidAt             *time.Time         `json:"paid_at,omitempty"`
	VoidedAt           *time.Time         `json:"voided_at,omitempty"`
	VoidReason         string             `json:"void_reason,omitempty"`
	Version            int                `json:"version"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ToBillResponse converts a domain bill to a response DTO
func ToBillResponse(b *billing.PurchaseBill) BillResponse {
	return BillResponse{
		ID:                 b.ID,
		BillNumber:         b.BillNumber,
		SupplierBillNumber: b.SupplierBillNumber,
		SupplierID:         b.SupplierID,
		SupplierName:       b.SupplierName,
		SupplierState:      b.SupplierState,
		CompanyState:       b.CompanyState,
		TaxRate:            b.TaxRate,
		IssueDate:          b.IssueDate,
		DueDate:            b.DueDate,
		Status:             b.Status,
		Lines:              toLineItemResponses(b.Lines),
		Subtotal:           b.Subtotal,
		TotalTax:           b.TotalTax,
		TotalAmount:        b.TotalAmount,
		AmountPaid:         b.AmountPaid,
		Outstanding:        b.Outstanding(),
		Payments:           toPaymentResponses(b.Payments),
		Notes:              b.Notes,
		SubmittedAt:        b.SubmittedAt,
		PaidAt:             b.PaidAt,
		VoidedAt:           b.VoidedAt,
		VoidReason:         b.VoidReason,
		Version:            b.GetVersion(),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// ==================== Estimate DTOs ====================

// CreateEstimateRequest represents a request to create a draft estimate
type CreateEstimateRequest struct {
	CustomerID uuid.UUID        `json:"customer_id" binding:"required"`
	IssueDate  time.Time        `json:"issue_date" binding:"required"`
	ExpiryDate *time.Time       `json:"expiry_date"`
	TaxRate    *decimal.Decimal `json:"tax_rate"`
	Lines      []LineItemInput  `json:"lines"`
	Notes      string           `json:"notes" binding:"max=1000"`
}

// UpdateEstimateRequest replaces the whole draft line set and notes
type UpdateEstimateRequest struct {
	IssueDate  *time.Time       `json:"issue_date"`
	ExpiryDate *time.Time       `json:"expiry_date"`
	TaxRate    *decimal.Decimal `json:"tax_rate"`
	Lines      []LineItemInput  `json:"lines" binding:"required,min=1"`
	Notes      *string          `json:"notes"`
}

// EstimateResponse represents an estimate in responses
type EstimateResponse struct {
	ID             uuid.UUID              `json:"id"`
	EstimateNumber string                 `json:"estimate_number,omitempty"`
	CustomerID     uuid.UUID              `json:"customer_id"`
	CustomerName   string                 `json:"customer_name"`
	CompanyState   string                 `json:"company_state"`
	PlaceOfSupply  string                 `json:"place_of_supply"`
	TaxRate        decimal.Decimal        `json:"tax_rate"`
	IssueDate      time.Time              `json:"issue_date"`
	ExpiryDate     *time.Time             `json:"expiry_date,omitempty"`
	Status         billing.EstimateStatus `json:"status"`
	Lines          []LineItemResponse     `json:"lines"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	TotalTax       decimal.Decimal        `json:"total_tax"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	Notes          string                 `json:"notes,omitempty"`
	InvoiceID      *uuid.UUID             `json:"invoice_id,omitempty"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToEstimateResponse converts a domain estimate to a response DTO
func ToEstimateResponse(e *billing.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:             e.ID,
		EstimateNumber: e.EstimateNumber,
		CustomerID:     e.CustomerID,
		CustomerName:   e.CustomerName,
		CompanyState:   e.CompanyState,
		PlaceOfSupply:  e.PlaceOfSupply,
		TaxRate:        e.TaxRate,
		IssueDate:      e.IssueDate,
		ExpiryDate:     e.ExpiryDate,
		Status:         e.Status,
		Lines:          toLineItemResponses(e.Lines),
		Subtotal:       e.Subtotal,
		TotalTax:       e.TotalTax,
		TotalAmount:    e.TotalAmount,
		Notes:          e.Notes,
		InvoiceID:      e.InvoiceID,
		Version:        e.GetVersion(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ==================== Summary DTOs ====================

// OutstandingSummary is a per-party receivable or payable total
type OutstandingSummary struct {
	PartyID     uuid.UUID       `json:"party_id"`
	PartyName   string          `json:"party_name"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
