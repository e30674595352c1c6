package persistence

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	selectSequenceSQL = `SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2 AND period = \$3 ORDER BY "document_sequences"\."id" LIMIT \$4 FOR UPDATE`
	insertSequenceSQL = `INSERT INTO "document_sequences"`
	updateSequenceSQL = `UPDATE "document_sequences" SET "next_value"=next_value \+ 1,"updated_at"=\$1 WHERE id = \$2`
)

func sequenceColumns() []string {
	return []string{"id", "tenant_id", "kind", "period", "next_value", "created_at", "updated_at"}
}

func sequenceRow(id, tenantID uuid.UUID, kind billing.DocumentKind, period string, nextValue int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(sequenceColumns()).
		AddRow(id.String(), tenantID.String(), string(kind), period, nextValue, now, now)
}

func TestGormDocumentSequenceRepository_Next(t *testing.T) {
	tenantID := uuid.New()
	period := "2025-26"

	t.Run("first allocation creates the counter and returns 1", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormDocumentSequenceRepository(db.DB)

		mock.ExpectQuery(selectSequenceSQL).
			WithArgs(tenantID, string(billing.DocumentKindSalesInvoice), period, 1).
			WillReturnRows(sqlmock.NewRows(sequenceColumns()))
		mock.ExpectExec(insertSequenceSQL).
			WithArgs(sqlmock.AnyArg(), tenantID, string(billing.DocumentKindSalesInvoice), period, int64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		value, err := repo.Next(context.Background(), tenantID, billing.DocumentKindSalesInvoice, period)
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing counter is locked, handed out, and advanced", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormDocumentSequenceRepository(db.DB)

		seqID := uuid.New()
		mock.ExpectQuery(selectSequenceSQL).
			WithArgs(tenantID, string(billing.DocumentKindSalesInvoice), period, 1).
			WillReturnRows(sequenceRow(seqID, tenantID, billing.DocumentKindSalesInvoice, period, 5))
		mock.ExpectExec(updateSequenceSQL).
			WithArgs(sqlmock.AnyArg(), seqID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		value, err := repo.Next(context.Background(), tenantID, billing.DocumentKindSalesInvoice, period)
		require.NoError(t, err)
		assert.Equal(t, int64(5), value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("losing the insert race surfaces a numbering conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormDocumentSequenceRepository(db.DB)

		mock.ExpectQuery(selectSequenceSQL).
			WithArgs(tenantID, string(billing.DocumentKindSalesInvoice), period, 1).
			WillReturnRows(sqlmock.NewRows(sequenceColumns()))
		mock.ExpectExec(insertSequenceSQL).
			WillReturnError(gorm.ErrDuplicatedKey)

		_, err := repo.Next(context.Background(), tenantID, billing.DocumentKindSalesInvoice, period)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeNumberingConflict, domainErr.Code)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects bad input without touching the database", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormDocumentSequenceRepository(db.DB)

		_, err := repo.Next(context.Background(), uuid.Nil, billing.DocumentKindSalesInvoice, period)
		assert.Error(t, err)

		_, err = repo.Next(context.Background(), tenantID, billing.DocumentKind("LEAFLET"), period)
		assert.Error(t, err)

		_, err = repo.Next(context.Background(), tenantID, billing.DocumentKindSalesInvoice, "")
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// Concurrent finalizes must never receive the same number. Each allocation
// reads the counter under lock and advances it, so every caller sees a
// distinct value and the sequence has no gaps.
func TestGormDocumentSequenceRepository_Next_ConcurrentAllocations(t *testing.T) {
	const workers = 12

	tenantID := uuid.New()
	period := "2025-26"
	seqID := uuid.New()

	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	mock.MatchExpectationsInOrder(false)
	repo := NewGormDocumentSequenceRepository(db.DB)

	for i := 1; i <= workers; i++ {
		mock.ExpectQuery(selectSequenceSQL).
			WithArgs(tenantID, string(billing.DocumentKindSalesInvoice), period, 1).
			WillReturnRows(sequenceRow(seqID, tenantID, billing.DocumentKindSalesInvoice, period, int64(i)))
		mock.ExpectExec(updateSequenceSQL).
			WithArgs(sqlmock.AnyArg(), seqID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := repo.Next(context.Background(), tenantID, billing.DocumentKindSalesInvoice, period)
			assert.NoError(t, err)
			mu.Lock()
			values = append(values, value)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, values, workers)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v, "allocations must be dense and duplicate-free")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
