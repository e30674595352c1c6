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

// billPayableStatuses are the statuses that still carry an outstanding
// balance.
var billPayableStatuses = []billing.BillStatus{
	billing.BillStatusSubmitted,
	billing.BillStatusPartiallyPaid,
}

// GormPurchaseBillRepository implements PurchaseBillRepository using GORM
type GormPurchaseBillRepository struct {
	db *gorm.DB
}

// NewGormPurchaseBillRepository creates a new GormPurchaseBillRepository
func NewGormPurchaseBillRepository(db *gorm.DB) *GormPurchaseBillRepository {
	return &GormPurchaseBillRepository{db: db}
}

// FindByIDForTenant finds a bill by ID within a tenant
func (r *GormPurchaseBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.PurchaseBill, error) {
	var model models.PurchaseBillModel
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

// FindByIDForTenantForUpdate re-reads the bill under a row lock
func (r *GormPurchaseBillRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.PurchaseBill, error) {
	var model models.PurchaseBillModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", model.ID).
		Order("position ASC").
		Find(&model.Lines).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a bill by its internal document number within a tenant
func (r *GormPurchaseBillRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.PurchaseBill, error) {
	if number == "" {
		return nil, shared.NewValidationError("Bill number cannot be empty")
	}
	var model models.PurchaseBillModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("tenant_id = ? AND bill_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all bills for a tenant
func (r *GormPurchaseBillRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.PurchaseBill, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.findBills(query)
}

// FindByStatus finds bills by status for a tenant
func (r *GormPurchaseBillRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status billing.BillStatus, filter shared.Filter) ([]billing.PurchaseBill, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	return r.findBills(query)
}

// FindBySupplier finds bills for a supplier
func (r *GormPurchaseBillRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]billing.PurchaseBill, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).
			Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID),
		filter,
	)
	return r.findBills(query)
}

// FindOutstanding finds submitted bills with a balance still due
func (r *GormPurchaseBillRepository) FindOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.PurchaseBill, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).
			Where("tenant_id = ? AND status IN ?", tenantID, billPayableStatuses),
		filter,
	)
	return r.findBills(query)
}

// Save creates or updates a bill and rewrites its lines
func (r *GormPurchaseBillRepository) Save(ctx context.Context, bill *billing.PurchaseBill) error {
	model := models.PurchaseBillModelFromDomain(bill)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceDocumentLines(tx, model.ID, model.Lines)
	})
}

// SaveWithLock saves a bill with optimistic locking; see the sales invoice
// repository for the version protocol.
func (r *GormPurchaseBillRepository) SaveWithLock(ctx context.Context, bill *billing.PurchaseBill) error {
	model := models.PurchaseBillModelFromDomain(bill)
	model.Version = bill.Version + 1
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PurchaseBillModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", bill.ID, bill.TenantID, bill.Version).
			Select("*").
			Omit("id", "tenant_id", "created_at", clause.Associations).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict,
				"The bill has been modified by another transaction")
		}
		if err := replaceDocumentLines(tx, model.ID, model.Lines); err != nil {
			return err
		}
		bill.Version++
		return nil
	})
}

// DeleteForTenant deletes a bill and its lines within a tenant
func (r *GormPurchaseBillRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.PurchaseBillModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error
	})
}

// CountForTenant counts bills for a tenant
func (r *GormPurchaseBillRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstandingBySupplier sums the outstanding balance across a supplier's
// payable bills
func (r *GormPurchaseBillRepository) SumOutstandingBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.PurchaseBillModel{}).
		Where("tenant_id = ? AND supplier_id = ? AND status IN ?", tenantID, supplierID, billPayableStatuses).
		Select("COALESCE(SUM(total_amount - amount_paid), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// findBills executes the query with lines preloaded and maps to domain
func (r *GormPurchaseBillRepository) findBills(query *gorm.DB) ([]billing.PurchaseBill, error) {
	var billModels []models.PurchaseBillModel
	if err := query.Preload("Lines", preloadLines).Find(&billModels).Error; err != nil {
		return nil, err
	}
	bills := make([]billing.PurchaseBill, len(billModels))
	for i := range billModels {
		bills[i] = *billModels[i].ToDomain()
	}
	return bills, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BillSortFields, "issue_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("bill_number ILIKE ? OR supplier_bill_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "issued_from":
			query = query.Where("issue_date >= ?", value)
		case "issued_to":
			query = query.Where("issue_date <= ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseBillRepository implements PurchaseBillRepository
var _ billing.PurchaseBillRepository = (*GormPurchaseBillRepository)(nil)
