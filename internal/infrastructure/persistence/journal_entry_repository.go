package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM.
// The journal is append-only: the repository exposes no update or delete,
// and corrections are posted as reversing entries.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByIDForTenant finds an entry by ID within a tenant
func (r *GormJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds the entries posted for a source document, oldest first
func (r *GormJournalEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]ledger.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindAllForTenant finds all entries for a tenant
func (r *GormJournalEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.JournalEntry, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	var entryModels []models.JournalEntryModel
	if err := query.Preload("Lines").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindByDateRange finds entries within a date range for a tenant
func (r *GormJournalEntryRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]ledger.JournalEntry, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
			Where("tenant_id = ? AND entry_date >= ? AND entry_date <= ?", tenantID, from, to),
		filter,
	)
	var entryModels []models.JournalEntryModel
	if err := query.Preload("Lines").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// Save persists a new entry with its lines. Entries are insert-only; saving
// an entry that already exists is a caller bug and surfaces as a duplicate
// key error.
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}

// CountForTenant counts entries for a tenant
func (r *GormJournalEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotals returns the debit and credit sums across all of a tenant's
// entries for the trial balance check
func (r *GormJournalEntryRepository) SumTotals(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var totals struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(total_debit), 0) AS total_debit, COALESCE(SUM(total_credit), 0) AS total_credit").
		Scan(&totals).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return totals.TotalDebit, totals.TotalCredit, nil
}

func (r *GormJournalEntryRepository) toDomainSlice(entryModels []models.JournalEntryModel) []ledger.JournalEntry {
	entries := make([]ledger.JournalEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries
}

// applyFilter applies filter options to the query
func (r *GormJournalEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, JournalEntrySortFields, "entry_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormJournalEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("narration ILIKE ? OR source_number ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "source_type":
			query = query.Where("source_type = ?", value)
		case "is_reversal":
			query = query.Where("is_reversal = ?", value)
		}
	}

	return query
}

// Ensure GormJournalEntryRepository implements JournalEntryRepository
var _ ledger.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
