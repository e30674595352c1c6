package ledger

import (
	"context"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountService handles chart of accounts operations
type AccountService struct {
	accountRepo ledger.ChartAccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.ChartAccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Create adds a new chart account. Codes are unique per tenant.
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accountRepo.FindByCode(ctx, tenantID, req.Code)
	if err != nil && !shared.IsDomainError(err, shared.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this code already exists")
	}

	if req.ParentID != nil {
		if _, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	account, err := ledger.NewChartAccount(tenantID, req.Code, req.Name, req.Class, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves a chart account by ID
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves all chart accounts for a tenant
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, class *ledger.AccountClass, filter shared.Filter) ([]AccountResponse, error) {
	var accounts []ledger.ChartAccount
	var err error
	if class != nil {
		accounts, err = s.accountRepo.FindByClass(ctx, tenantID, *class)
	} else {
		accounts, err = s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out, nil
}

// Rename changes an account's display name
func (s *AccountService) Rename(ctx context.Context, tenantID, accountID uuid.UUID, req RenameAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// Deactivate hides an account from new postings
func (s *AccountService) Deactivate(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	return s.mutate(ctx, tenantID, accountID, (*ledger.ChartAccount).Deactivate)
}

// Activate re-enables an account for posting
func (s *AccountService) Activate(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	return s.mutate(ctx, tenantID, accountID, (*ledger.ChartAccount).Activate)
}

func (s *AccountService) mutate(ctx context.Context, tenantID, accountID uuid.UUID, fn func(*ledger.ChartAccount) error) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := fn(account); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}
