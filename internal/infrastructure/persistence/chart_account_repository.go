package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChartAccountRepository implements ChartAccountRepository using GORM
type GormChartAccountRepository struct {
	db *gorm.DB
}

// NewGormChartAccountRepository creates a new GormChartAccountRepository
func NewGormChartAccountRepository(db *gorm.DB) *GormChartAccountRepository {
	return &GormChartAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormChartAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.ChartAccount, error) {
	var model models.ChartAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its code within a tenant
func (r *GormChartAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.ChartAccount, error) {
	if code == "" {
		return nil, shared.NewValidationError("Account code cannot be empty")
	}
	var model models.ChartAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all accounts for a tenant
func (r *GormChartAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.ChartAccount, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ChartAccountModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	var accountModels []models.ChartAccountModel
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(accountModels), nil
}

// FindByClass finds accounts of one class for a tenant, ordered by code
func (r *GormChartAccountRepository) FindByClass(ctx context.Context, tenantID uuid.UUID, class ledger.AccountClass) ([]ledger.ChartAccount, error) {
	var accountModels []models.ChartAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND class = ?", tenantID, class).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(accountModels), nil
}

// ExistsForTenant reports whether all given account IDs belong to the tenant
func (r *GormChartAccountRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	// Deduplicate: the same account may serve several roles in the mapping.
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	distinct := make([]uuid.UUID, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ChartAccountModel{}).
		Where("tenant_id = ? AND id IN ?", tenantID, distinct).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(distinct)), nil
}

// Save creates or updates an account
func (r *GormChartAccountRepository) Save(ctx context.Context, account *ledger.ChartAccount) error {
	model := models.ChartAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves an account with optimistic locking
func (r *GormChartAccountRepository) SaveWithLock(ctx context.Context, account *ledger.ChartAccount) error {
	model := models.ChartAccountModelFromDomain(account)
	model.Version = account.Version + 1
	result := r.db.WithContext(ctx).Model(&models.ChartAccountModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", account.ID, account.TenantID, account.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict,
			"The account has been modified by another transaction")
	}
	account.Version++
	return nil
}

// CountForTenant counts accounts for a tenant
func (r *GormChartAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ChartAccountModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormChartAccountRepository) toDomainSlice(accountModels []models.ChartAccountModel) []ledger.ChartAccount {
	accounts := make([]ledger.ChartAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts
}

// applyFilter applies filter options to the query
func (r *GormChartAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ChartAccountSortFields, "code")
	orderDir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormChartAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "class":
			query = query.Where("class = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormChartAccountRepository implements ChartAccountRepository
var _ ledger.ChartAccountRepository = (*GormChartAccountRepository)(nil)
