package billing

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimateRepository defines the interface for estimate persistence
type EstimateRepository interface {
	// FindByIDForTenant finds an estimate by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Estimate, error)

	// FindByIDForTenantForUpdate re-reads the estimate under a row lock.
	// Only valid inside a transaction; used before number assignment and
	// conversion.
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Estimate, error)

	// FindByNumber finds an estimate by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Estimate, error)

	// FindAllForTenant finds all estimates for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Estimate, error)

	// FindByStatus finds estimates by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status EstimateStatus, filter shared.Filter) ([]Estimate, error)

	// FindByCustomer finds estimates for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Estimate, error)

	// FindExpirable finds sent estimates whose expiry date is before asOf
	FindExpirable(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Estimate, error)

	// Save creates or updates an estimate
	Save(ctx context.Context, estimate *Estimate) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, estimate *Estimate) error

	// DeleteForTenant soft deletes a draft estimate for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts estimates for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SalesInvoiceRepository defines the interface for sales invoice persistence
type SalesInvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesInvoice, error)

	// FindByIDForTenantForUpdate re-reads the invoice under a row lock.
	// Only valid inside a transaction; used before applying payments.
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*SalesInvoice, error)

	// FindByNumber finds an invoice by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*SalesInvoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)

	// FindByStatus finds invoices by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus, filter shared.Filter) ([]SalesInvoice, error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)

	// FindOutstanding finds finalized invoices with a balance still due
	FindOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *SalesInvoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *SalesInvoice) error

	// DeleteForTenant soft deletes a draft invoice for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts invoices for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumOutstandingByCustomer sums the outstanding balance per customer
	SumOutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error)
}

// PurchaseBillRepository defines the interface for purchase bill persistence
type PurchaseBillRepository interface {
	// FindByIDForTenant finds a bill by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseBill, error)

	// FindByIDForTenantForUpdate re-reads the bill under a row lock.
	// Only valid inside a transaction; used before applying payments.
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseBill, error)

	// FindByNumber finds a bill by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*PurchaseBill, error)

	// FindAllForTenant finds all bills for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseBill, error)

	// FindByStatus finds bills by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status BillStatus, filter shared.Filter) ([]PurchaseBill, error)

	// FindBySupplier finds bills for a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseBill, error)

	// FindOutstanding finds submitted bills with a balance still due
	FindOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseBill, error)

	// Save creates or updates a bill
	Save(ctx context.Context, bill *PurchaseBill) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, bill *PurchaseBill) error

	// DeleteForTenant soft deletes a draft bill for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts bills for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumOutstandingBySupplier sums the outstanding balance per supplier
	SumOutstandingBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error)
}
