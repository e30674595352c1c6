package ledger

import (
	"context"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingsService handles the tenant's posting configuration. Every account
// referenced in the mapping must exist for the tenant before it is saved;
// the poster then resolves roles at posting time and fails with
// UNRESOLVED_ACCOUNT on any gap.
type SettingsService struct {
	settingsRepo ledger.LedgerSettingsRepository
	accountRepo  ledger.ChartAccountRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo ledger.LedgerSettingsRepository, accountRepo ledger.ChartAccountRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, accountRepo: accountRepo}
}

// Get returns the tenant's posting configuration, empty if never configured
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if shared.IsDomainError(err, shared.CodeNotFound) {
			settings = ledger.NewLedgerSettings(tenantID)
		} else {
			return nil, err
		}
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// Update replaces the tenant's posting configuration wholesale
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	if err := s.verifyAccounts(ctx, tenantID, req); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if !shared.IsDomainError(err, shared.CodeNotFound) {
			return nil, err
		}
		settings = ledger.NewLedgerSettings(tenantID)
	}

	settings.Update(
		req.ReceivableAccountID, req.PayableAccountID,
		req.RevenueAccountID, req.ExpenseAccountID, req.CashAccountID,
		req.TaxPayable, req.TaxReceivable,
	)
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	response := ToSettingsResponse(settings)
	return &response, nil
}

// verifyAccounts checks that every referenced account belongs to the tenant
func (s *SettingsService) verifyAccounts(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) error {
	var ids []uuid.UUID
	for _, id := range []*uuid.UUID{
		req.ReceivableAccountID, req.PayableAccountID,
		req.RevenueAccountID, req.ExpenseAccountID, req.CashAccountID,
	} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	for _, id := range req.TaxPayable {
		ids = append(ids, id)
	}
	for _, id := range req.TaxReceivable {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	ok, err := s.accountRepo.ExistsForTenant(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewValidationError("One or more mapped accounts do not exist for this tenant")
	}
	return nil
}
