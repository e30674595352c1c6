package persistence

import (
	"context"
	"errors"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerSettingsRepository implements LedgerSettingsRepository using GORM.
// Each tenant has at most one settings row.
type GormLedgerSettingsRepository struct {
	db *gorm.DB
}

// NewGormLedgerSettingsRepository creates a new GormLedgerSettingsRepository
func NewGormLedgerSettingsRepository(db *gorm.DB) *GormLedgerSettingsRepository {
	return &GormLedgerSettingsRepository{db: db}
}

// FindForTenant returns the tenant's settings row
func (r *GormLedgerSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*ledger.LedgerSettings, error) {
	var model models.LedgerSettingsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the settings row
func (r *GormLedgerSettingsRepository) Save(ctx context.Context, settings *ledger.LedgerSettings) error {
	model := models.LedgerSettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormLedgerSettingsRepository implements LedgerSettingsRepository
var _ ledger.LedgerSettingsRepository = (*GormLedgerSettingsRepository)(nil)
