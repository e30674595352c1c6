package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invoicePayableStatuses are the statuses that still carry an outstanding
// balance.
var invoicePayableStatuses = []billing.InvoiceStatus{
	billing.InvoiceStatusSent,
	billing.InvoiceStatusPartiallyPaid,
}

// GormSalesInvoiceRepository implements SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.SalesInvoice, error) {
	var model models.SalesInvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenantForUpdate re-reads the invoice under a row lock. The lock
// is held until the surrounding transaction commits or rolls back.
func (r *GormSalesInvoiceRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.SalesInvoice, error) {
	var model models.SalesInvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	// Lines are loaded separately; the row lock on the header is enough
	// because lines are only ever written together with their header.
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", model.ID).
		Order("position ASC").
		Find(&model.Lines).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its document number within a tenant
func (r *GormSalesInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.SalesInvoice, error) {
	if number == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	var model models.SalesInvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.SalesInvoice, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.findInvoices(query)
}

// FindByStatus finds invoices by status for a tenant
func (r *GormSalesInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status billing.InvoiceStatus, filter shared.Filter) ([]billing.SalesInvoice, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	return r.findInvoices(query)
}

// FindByCustomer finds invoices for a customer
func (r *GormSalesInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.SalesInvoice, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
			Where("tenant_id = ? AND customer_id = ?", tenantID, customerID),
		filter,
	)
	return r.findInvoices(query)
}

// FindOutstanding finds finalized invoices with a balance still due
func (r *GormSalesInvoiceRepository) FindOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.SalesInvoice, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
			Where("tenant_id = ? AND status IN ?", tenantID, invoicePayableStatuses),
		filter,
	)
	return r.findInvoices(query)
}

// Save creates or updates an invoice and rewrites its lines
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *billing.SalesInvoice) error {
	model := models.SalesInvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceDocumentLines(tx, model.ID, model.Lines)
	})
}

// SaveWithLock saves an invoice with optimistic locking. The version column
// is checked against the version the aggregate was loaded with and bumped in
// the same statement; zero rows affected means a concurrent writer won.
func (r *GormSalesInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.SalesInvoice) error {
	model := models.SalesInvoiceModelFromDomain(invoice)
	model.Version = invoice.Version + 1
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SalesInvoiceModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", invoice.ID, invoice.TenantID, invoice.Version).
			Select("*").
			Omit("id", "tenant_id", "created_at", clause.Associations).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict,
				"The invoice has been modified by another transaction")
		}
		if err := replaceDocumentLines(tx, model.ID, model.Lines); err != nil {
			return err
		}
		invoice.Version++
		return nil
	})
}

// DeleteForTenant deletes an invoice and its lines within a tenant
func (r *GormSalesInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.SalesInvoiceModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error
	})
}

// CountForTenant counts invoices for a tenant
func (r *GormSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstandingByCustomer sums the outstanding balance across a customer's
// payable invoices
func (r *GormSalesInvoiceRepository) SumOutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?", tenantID, customerID, invoicePayableStatuses).
		Select("COALESCE(SUM(total_amount - amount_paid), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// findInvoices executes the query with lines preloaded and maps to domain
func (r *GormSalesInvoiceRepository) findInvoices(query *gorm.DB) ([]billing.SalesInvoice, error) {
	var invoiceModels []models.SalesInvoiceModel
	if err := query.Preload("Lines", preloadLines).Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]billing.SalesInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// applyFilter applies filter options to the query
func (r *GormSalesInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "issue_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSalesInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "issued_from":
			query = query.Where("issue_date >= ?", value)
		case "issued_to":
			query = query.Where("issue_date <= ?", value)
		}
	}

	return query
}

// Ensure GormSalesInvoiceRepository implements SalesInvoiceRepository
var _ billing.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)
