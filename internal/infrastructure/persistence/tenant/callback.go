// Package tenant registers GORM callbacks that enforce tenant isolation at
// the connection level.
//
// Repositories always filter by tenant themselves; the callbacks are the
// backstop for the query a repository forgets. With required=true a query
// whose context carries no tenant fails instead of returning every tenant's
// documents.
package tenant

import (
	"errors"
	"strings"

	"github.com/finbooks/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTenantIDRequired is returned when a query runs without a tenant in context
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the context tenant is not a UUID
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantCallback adds tenant_id conditions to queries that lack one
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates a callback handler filtering on tenantColumn
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// RegisterCallbacks hooks the tenant filter into query, row, update and
// delete processing. Creates are exempt: aggregates carry their TenantID as
// a column and writing it is the repository's job.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
}

func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	// Unscoped marks deliberate cross-tenant access, e.g. the migrate CLI.
	if db.Statement.Unscoped {
		return
	}

	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition reports whether the statement already filters on the
// tenant column, so repository-written conditions are not doubled up
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	// Raw SQL bypasses the clause tree.
	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers the tenant callbacks on a connection.
// With required=false a query without a tenant in context runs unfiltered,
// which system endpoints and the migrate CLI rely on.
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	tc := NewTenantCallback("tenant_id", required)
	tc.RegisterCallbacks(db)
}

// DisableAutoTenantFilter unregisters the tenant callbacks. Test helper;
// production connections keep the filter for their lifetime.
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Row().Remove("tenant:before_row")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
}
