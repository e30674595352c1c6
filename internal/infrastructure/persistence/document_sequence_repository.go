package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentSequenceRepository implements billing.SequenceAllocator on a
// per-(tenant, kind, period) counter row. The row is read under FOR UPDATE
// inside the caller's transaction, so a rolled-back finalize releases its
// number and two concurrent finalizes serialize on the counter.
type GormDocumentSequenceRepository struct {
	db *gorm.DB
}

// NewGormDocumentSequenceRepository creates a new GormDocumentSequenceRepository
func NewGormDocumentSequenceRepository(db *gorm.DB) *GormDocumentSequenceRepository {
	return &GormDocumentSequenceRepository{db: db}
}

// Next allocates the next sequence value for the triple. The first
// allocation in a period creates the counter row; a concurrent first
// allocation loses the insert race and surfaces NUMBERING_CONFLICT, which
// the number generator treats as transient and retries.
func (r *GormDocumentSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, period string) (int64, error) {
	if tenantID == uuid.Nil {
		return 0, shared.NewValidationError("Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return 0, shared.NewValidationError(fmt.Sprintf("Invalid document kind: %s", kind))
	}
	if period == "" {
		return 0, shared.NewValidationError("Period cannot be empty")
	}

	var seq models.DocumentSequenceModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND kind = ? AND period = ?", tenantID, kind, period).
		First(&seq).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		seq = models.DocumentSequenceModel{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Kind:      kind,
			Period:    period,
			NextValue: 2,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, shared.NewDomainError(shared.CodeNumberingConflict,
					"Concurrent allocation created the sequence first, retry")
			}
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	value := seq.NextValue
	if err := r.db.WithContext(ctx).Model(&models.DocumentSequenceModel{}).
		Where("id = ?", seq.ID).
		Updates(map[string]interface{}{
			"next_value": gorm.Expr("next_value + 1"),
			"updated_at": time.Now(),
		}).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormDocumentSequenceRepository implements SequenceAllocator
var _ billing.SequenceAllocator = (*GormDocumentSequenceRepository)(nil)
