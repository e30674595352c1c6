package persistence

import (
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// preloadLines orders line items by their display position when loading a
// document aggregate.
func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// replaceDocumentLines rewrites the full line set of a document. Lines are
// owned by their parent and replaced wholesale on every save; they are never
// patched individually.
func replaceDocumentLines(tx *gorm.DB, documentID uuid.UUID, lines []models.DocumentLineModel) error {
	if err := tx.Where("document_id = ?", documentID).Delete(&models.DocumentLineModel{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return tx.Create(&lines).Error
}
