package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEstimateRepository implements EstimateRepository using GORM
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GormEstimateRepository
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// FindByIDForTenant finds an estimate by ID within a tenant
func (r *GormEstimateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	var model models.EstimateModel
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

// FindByIDForTenantForUpdate re-reads the estimate under a row lock. The
// lock is held until the surrounding transaction commits or rolls back.
func (r *GormEstimateRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	var model models.EstimateModel
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

// FindByNumber finds an estimate by its document number within a tenant
func (r *GormEstimateRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Estimate, error) {
	if number == "" {
		return nil, shared.NewValidationError("Estimate number cannot be empty")
	}
	var model models.EstimateModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("tenant_id = ? AND estimate_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all estimates for a tenant
func (r *GormEstimateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EstimateModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.findEstimates(query)
}

// FindByStatus finds estimates by status for a tenant
func (r *GormEstimateRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status billing.EstimateStatus, filter shared.Filter) ([]billing.Estimate, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EstimateModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	return r.findEstimates(query)
}

// FindByCustomer finds estimates for a customer
func (r *GormEstimateRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EstimateModel{}).
			Where("tenant_id = ? AND customer_id = ?", tenantID, customerID),
		filter,
	)
	return r.findEstimates(query)
}

// FindExpirable finds sent estimates whose expiry date has passed
func (r *GormEstimateRepository) FindExpirable(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]billing.Estimate, error) {
	query := r.db.WithContext(ctx).Model(&models.EstimateModel{}).
		Where("tenant_id = ? AND status = ? AND expiry_date IS NOT NULL AND expiry_date < ?",
			tenantID, billing.EstimateStatusSent, asOf).
		Order("expiry_date ASC")
	return r.findEstimates(query)
}

// Save creates or updates an estimate and rewrites its lines
func (r *GormEstimateRepository) Save(ctx context.Context, estimate *billing.Estimate) error {
	model := models.EstimateModelFromDomain(estimate)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceDocumentLines(tx, model.ID, model.Lines)
	})
}

// SaveWithLock saves an estimate with optimistic locking; see the sales
// invoice repository for the version protocol.
func (r *GormEstimateRepository) SaveWithLock(ctx context.Context, estimate *billing.Estimate) error {
	model := models.EstimateModelFromDomain(estimate)
	model.Version = estimate.Version + 1
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.EstimateModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", estimate.ID, estimate.TenantID, estimate.Version).
			Select("*").
			Omit("id", "tenant_id", "created_at", clause.Associations).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrencyConflict,
				"The estimate has been modified by another transaction")
		}
		if err := replaceDocumentLines(tx, model.ID, model.Lines); err != nil {
			return err
		}
		estimate.Version++
		return nil
	})
}

// DeleteForTenant deletes an estimate and its lines within a tenant
func (r *GormEstimateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.EstimateModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error
	})
}

// CountForTenant counts estimates for a tenant
func (r *GormEstimateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EstimateModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// findEstimates executes the query with lines preloaded and maps to domain
func (r *GormEstimateRepository) findEstimates(query *gorm.DB) ([]billing.Estimate, error) {
	var estimateModels []models.EstimateModel
	if err := query.Preload("Lines", preloadLines).Find(&estimateModels).Error; err != nil {
		return nil, err
	}
	estimates := make([]billing.Estimate, len(estimateModels))
	for i := range estimateModels {
		estimates[i] = *estimateModels[i].ToDomain()
	}
	return estimates, nil
}

// applyFilter applies filter options to the query
func (r *GormEstimateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EstimateSortFields, "issue_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEstimateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("estimate_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}

// Ensure GormEstimateRepository implements EstimateRepository
var _ billing.EstimateRepository = (*GormEstimateRepository)(nil)
