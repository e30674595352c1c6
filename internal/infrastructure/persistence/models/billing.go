package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentLineModel is the persistence model for a priced line item. All
// three document kinds share the document_lines table; a line belongs to
// exactly one parent document and is replaced with it.
//
// Document number uniqueness per tenant is enforced by partial unique
// indexes in the migrations (drafts carry an empty number).
type DocumentLineModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Position    int                   `gorm:"not null"`
	ProductID   *uuid.UUID            `gorm:"type:uuid"`
	Description string                `gorm:"type:varchar(500);not null"`
	HSNCode     string                `gorm:"type:varchar(20)"`
	Quantity    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Taxes       billing.TaxComponents `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time             `gorm:"not null"`
	UpdatedAt   time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *DocumentLineModel) ToDomain() *billing.LineItem {
	return &billing.LineItem{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		Position:    m.Position,
		ProductID:   m.ProductID,
		Description: m.Description,
		HSNCode:     m.HSNCode,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
		Taxes:       m.Taxes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// DocumentLineModelFromDomain creates a persistence model from a domain LineItem
func DocumentLineModelFromDomain(l *billing.LineItem) *DocumentLineModel {
	return &DocumentLineModel{
		ID:          l.ID,
		DocumentID:  l.DocumentID,
		Position:    l.Position,
		ProductID:   l.ProductID,
		Description: l.Description,
		HSNCode:     l.HSNCode,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Subtotal:    l.Subtotal,
		Taxes:       l.Taxes,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// SalesInvoiceModel is the persistence model for the SalesInvoice aggregate root.
type SalesInvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber    string                `gorm:"type:varchar(50);not null;index:idx_sales_invoice_tenant_number,priority:2"`
	CustomerID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName     string                `gorm:"type:varchar(200);not null"`
	CompanyState     string                `gorm:"type:varchar(10);not null"`
	PlaceOfSupply    string                `gorm:"type:varchar(10);not null"`
	TaxRate          decimal.Decimal       `gorm:"type:decimal(8,4);not null"`
	IssueDate        time.Time             `gorm:"not null;index"`
	DueDate          *time.Time            `gorm:"index"`
	Lines            []DocumentLineModel   `gorm:"foreignKey:DocumentID;references:ID"`
	Subtotal         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status           billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Payments         billing.Payments      `gorm:"type:jsonb;not null;default:'[]'"`
	Notes            string                `gorm:"type:text"`
	SourceEstimateID *uuid.UUID            `gorm:"type:uuid;index"`
	FinalizedAt      *time.Time            `gorm:"index"`
	PaidAt           *time.Time
	VoidedAt         *time.Time
	VoidReason       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesInvoiceModel) TableName() string {
	return "sales_invoices"
}

// ToDomain converts the persistence model to a domain SalesInvoice
func (m *SalesInvoiceModel) ToDomain() *billing.SalesInvoice {
	inv := &billing.SalesInvoice{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		InvoiceNumber:    m.InvoiceNumber,
		CustomerID:       m.CustomerID,
		CustomerName:     m.CustomerName,
		CompanyState:     m.CompanyState,
		PlaceOfSupply:    m.PlaceOfSupply,
		TaxRate:          m.TaxRate,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		Subtotal:         m.Subtotal,
		TotalTax:         m.TotalTax,
		TotalAmount:      m.TotalAmount,
		AmountPaid:       m.AmountPaid,
		Status:           m.Status,
		Payments:         m.Payments,
		Notes:            m.Notes,
		SourceEstimateID: m.SourceEstimateID,
		FinalizedAt:      m.FinalizedAt,
		PaidAt:           m.PaidAt,
		VoidedAt:         m.VoidedAt,
		VoidReason:       m.VoidReason,
		Lines:            make([]billing.LineItem, len(m.Lines)),
	}
	for i, line := range m.Lines {
		inv.Lines[i] = *line.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain SalesInvoice
func (m *SalesInvoiceModel) FromDomain(inv *billing.SalesInvoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.CompanyState = inv.CompanyState
	m.PlaceOfSupply = inv.PlaceOfSupply
	m.TaxRate = inv.TaxRate
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Subtotal = inv.Subtotal
	m.TotalTax = inv.TotalTax
	m.TotalAmount = inv.TotalAmount
	m.AmountPaid = inv.AmountPaid
	m.Status = inv.Status
	m.Payments = inv.Payments
	m.Notes = inv.Notes
	m.SourceEstimateID = inv.SourceEstimateID
	m.FinalizedAt = inv.FinalizedAt
	m.PaidAt = inv.PaidAt
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason
	m.Lines = make([]DocumentLineModel, len(inv.Lines))
	for i, line := range inv.Lines {
		m.Lines[i] = *DocumentLineModelFromDomain(&line)
	}
}

// SalesInvoiceModelFromDomain creates a persistence model from a domain SalesInvoice
func SalesInvoiceModelFromDomain(inv *billing.SalesInvoice) *SalesInvoiceModel {
	m := &SalesInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PurchaseBillModel is the persistence model for the PurchaseBill aggregate root.
type PurchaseBillModel struct {
	TenantAggregateModel
	BillNumber         string              `gorm:"type:varchar(50);not null;index:idx_purchase_bill_tenant_number,priority:2"`
	SupplierBillNumber string              `gorm:"type:varchar(100)"`
	SupplierID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName       string              `gorm:"type:varchar(200);not null"`
	SupplierState      string              `gorm:"type:varchar(10);not null"`
	CompanyState       string              `gorm:"type:varchar(10);not null"`
	TaxRate            decimal.Decimal     `gorm:"type:decimal(8,4);not null"`
	IssueDate          time.Time           `gorm:"not null;index"`
	DueDate            *time.Time          `gorm:"index"`
	Lines              []DocumentLineModel `gorm:"foreignKey:DocumentID;references:ID"`
	Subtotal           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status             billing.BillStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Payments           billing.Payments    `gorm:"type:jsonb;not null;default:'[]'"`
	Notes              string              `gorm:"type:text"`
	SubmittedAt        *time.Time          `gorm:"index"`
	PaidAt             *time.Time
	VoidedAt           *time.Time
	VoidReason         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseBillModel) TableName() string {
	return "purchase_bills"
}

// ToDomain converts the persistence model to a domain PurchaseBill
func (m *PurchaseBillModel) ToDomain() *billing.PurchaseBill {
	bill := &billing.PurchaseBill{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		BillNumber:         m.BillNumber,
		SupplierBillNumber: m.SupplierBillNumber,
		SupplierID:         m.SupplierID,
		SupplierName:       m.SupplierName,
		SupplierState:      m.SupplierState,
		CompanyState:       m.CompanyState,
		TaxRate:            m.TaxRate,
		IssueDate:          m.IssueDate,
		DueDate:            m.DueDate,
		Subtotal:           m.Subtotal,
		TotalTax:           m.TotalTax,
		TotalAmount:        m.TotalAmount,
		AmountPaid:         m.AmountPaid,
		Status:             m.Status,
		Payments:           m.Payments,
		Notes:              m.Notes,
		SubmittedAt:        m.SubmittedAt,
		PaidAt:             m.PaidAt,
		VoidedAt:           m.VoidedAt,
		VoidReason:         m.VoidReason,
		Lines:              make([]billing.LineItem, len(m.Lines)),
	}
	for i, line := range m.Lines {
		bill.Lines[i] = *line.ToDomain()
	}
	return bill
}

// FromDomain populates the persistence model from a domain PurchaseBill
func (m *PurchaseBillModel) FromDomain(bill *billing.PurchaseBill) {
	m.FromDomainTenantAggregateRoot(bill.TenantAggregateRoot)
	m.BillNumber = bill.BillNumber
	m.SupplierBillNumber = bill.SupplierBillNumber
	m.SupplierID = bill.SupplierID
	m.SupplierName = bill.SupplierName
	m.SupplierState = bill.SupplierState
	m.CompanyState = bill.CompanyState
	m.TaxRate = bill.TaxRate
	m.IssueDate = bill.IssueDate
	m.DueDate = bill.DueDate
	m.Subtotal = bill.Subtotal
	m.TotalTax = bill.TotalTax
	m.TotalAmount = bill.TotalAmount
	m.AmountPaid = bill.AmountPaid
	m.Status = bill.Status
	m.Payments = bill.Payments
	m.Notes = bill.Notes
	m.SubmittedAt = bill.SubmittedAt
	m.PaidAt = bill.PaidAt
	m.VoidedAt = bill.VoidedAt
	m.VoidReason = bill.VoidReason
	m.Lines = make([]DocumentLineModel, len(bill.Lines))
	for i, line := range bill.Lines {
		m.Lines[i] = *DocumentLineModelFromDomain(&line)
	}
}

// PurchaseBillModelFromDomain creates a persistence model from a domain PurchaseBill
func PurchaseBillModelFromDomain(bill *billing.PurchaseBill) *PurchaseBillModel {
	m := &PurchaseBillModel{}
	m.FromDomain(bill)
	return m
}

// EstimateModel is the persistence model for the Estimate aggregate root.
type EstimateModel struct {
	TenantAggregateModel
	EstimateNumber string                 `gorm:"type:varchar(50);not null;index:idx_estimate_tenant_number,priority:2"`
	CustomerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName   string                 `gorm:"type:varchar(200);not null"`
	CompanyState   string                 `gorm:"type:varchar(10);not null"`
	PlaceOfSupply  string                 `gorm:"type:varchar(10);not null"`
	TaxRate        decimal.Decimal        `gorm:"type:decimal(8,4);not null"`
	IssueDate      time.Time              `gorm:"not null;index"`
	ExpiryDate     *time.Time             `gorm:"index"`
	Lines          []DocumentLineModel    `gorm:"foreignKey:DocumentID;references:ID"`
	Subtotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status         billing.EstimateStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes          string                 `gorm:"type:text"`
	InvoiceID      *uuid.UUID             `gorm:"type:uuid;index"`
	SentAt         *time.Time
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	ExpiredAt      *time.Time
	InvoicedAt     *time.Time
}

// TableName returns the table name for GORM
func (EstimateModel) TableName() string {
	return "estimates"
}

// ToDomain converts the persistence model to a domain Estimate
func (m *EstimateModel) ToDomain() *billing.Estimate {
	est := &billing.Estimate{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		EstimateNumber: m.EstimateNumber,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		CompanyState:   m.CompanyState,
		PlaceOfSupply:  m.PlaceOfSupply,
		TaxRate:        m.TaxRate,
		IssueDate:      m.IssueDate,
		ExpiryDate:     m.ExpiryDate,
		Subtotal:       m.Subtotal,
		TotalTax:       m.TotalTax,
		TotalAmount:    m.TotalAmount,
		Status:         m.Status,
		Notes:          m.Notes,
		InvoiceID:      m.InvoiceID,
		SentAt:         m.SentAt,
		AcceptedAt:     m.AcceptedAt,
		DeclinedAt:     m.DeclinedAt,
		ExpiredAt:      m.ExpiredAt,
		InvoicedAt:     m.InvoicedAt,
		Lines:          make([]billing.LineItem, len(m.Lines)),
	}
	for i, line := range m.Lines {
		est.Lines[i] = *line.ToDomain()
	}
	return est
}

// FromDomain populates the persistence model from a domain Estimate
func (m *EstimateModel) FromDomain(est *billing.Estimate) {
	m.FromDomainTenantAggregateRoot(est.TenantAggregateRoot)
	m.EstimateNumber = est.EstimateNumber
	m.CustomerID = est.CustomerID
	m.CustomerName = est.CustomerName
	m.CompanyState = est.CompanyState
	m.PlaceOfSupply = est.PlaceOfSupply
	m.TaxRate = est.TaxRate
	m.IssueDate = est.IssueDate
	m.ExpiryDate = est.ExpiryDate
	m.Subtotal = est.Subtotal
	m.TotalTax = est.TotalTax
	m.TotalAmount = est.TotalAmount
	m.Status = est.Status
	m.Notes = est.Notes
	m.InvoiceID = est.InvoiceID
	m.SentAt = est.SentAt
	m.AcceptedAt = est.AcceptedAt
	m.DeclinedAt = est.DeclinedAt
	m.ExpiredAt = est.ExpiredAt
	m.InvoicedAt = est.InvoicedAt
	m.Lines = make([]DocumentLineModel, len(est.Lines))
	for i, line := range est.Lines {
		m.Lines[i] = *DocumentLineModelFromDomain(&line)
	}
}

// EstimateModelFromDomain creates a persistence model from a domain Estimate
func EstimateModelFromDomain(est *billing.Estimate) *EstimateModel {
	m := &EstimateModel{}
	m.FromDomain(est)
	return m
}

// DocumentSequenceModel is the persistence model for a document number
// sequence. One row per (tenant, kind, period); NextValue is the value the
// next allocation will hand out. The row is read under FOR UPDATE so two
// concurrent finalizes cannot receive the same number.
type DocumentSequenceModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_document_sequence_key,priority:1"`
	Kind      billing.DocumentKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_document_sequence_key,priority:2"`
	Period    string               `gorm:"type:varchar(10);not null;uniqueIndex:idx_document_sequence_key,priority:3"`
	NextValue int64                `gorm:"not null;default:1"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
