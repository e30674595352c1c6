package billing

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EstimateService handles estimate business operations, including the
// conversion of accepted estimates into finalized sales invoices
type EstimateService struct {
	scope          TransactionScope
	estimateRepo   billing.EstimateRepository
	customerRepo   partner.CustomerRepository
	profile        CompanyProfile
	eventPublisher shared.EventPublisher
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(
	scope TransactionScope,
	estimateRepo billing.EstimateRepository,
	customerRepo partner.CustomerRepository,
	profile CompanyProfile,
) *EstimateService {
	return &EstimateService{
		scope:        scope,
		estimateRepo: estimateRepo,
		customerRepo: customerRepo,
		profile:      profile,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *EstimateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft estimate
func (s *EstimateService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEstimateRequest) (*EstimateResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewStateError("Cannot raise documents for an inactive customer")
	}

	est, err := billing.NewEstimate(
		tenantID,
		customer.ID,
		customer.Name,
		s.profile.State,
		customer.StateCode,
		s.profile.taxRateOrDefault(req.TaxRate),
		req.IssueDate,
		req.ExpiryDate,
	)
	if err != nil {
		return nil, err
	}

	if len(req.Lines) > 0 {
		lines, err := buildLineItems(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := est.ReplaceLines(lines); err != nil {
			return nil, err
		}
		if err := verifyDeclaredTaxes(req.Lines, est.Lines); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := est.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.estimateRepo.Save(ctx, est); err != nil {
		return nil, err
	}
	s.publish(ctx, est.GetDomainEvents())
	est.ClearDomainEvents()

	response := ToEstimateResponse(est)
	return &response, nil
}

// Update replaces a draft estimate's lines and editable header fields
func (s *EstimateService) Update(ctx context.Context, tenantID, estimateID uuid.UUID, req UpdateEstimateRequest) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	if !est.CanModify() {
		return nil, shared.NewStateError("Only draft estimates can be edited")
	}

	if req.IssueDate != nil {
		est.IssueDate = *req.IssueDate
	}
	if req.ExpiryDate != nil {
		est.ExpiryDate = req.ExpiryDate
	}
	if req.TaxRate != nil {
		est.TaxRate = *req.TaxRate
	}

	lines, err := buildLineItems(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := est.ReplaceLines(lines); err != nil {
		return nil, err
	}
	if err := verifyDeclaredTaxes(req.Lines, est.Lines); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		if err := est.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.estimateRepo.SaveWithLock(ctx, est); err != nil {
		return nil, err
	}

	response := ToEstimateResponse(est)
	return &response, nil
}

// GetByID retrieves an estimate by ID
func (s *EstimateService) GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	response := ToEstimateResponse(est)
	return &response, nil
}

// List retrieves estimates for a tenant with optional status filtering
func (s *EstimateService) List(ctx context.Context, tenantID uuid.UUID, status *billing.EstimateStatus, filter shared.Filter) (*shared.Paginated[EstimateResponse], error) {
	var estimates []billing.Estimate
	var err error
	if status != nil {
		estimates, err = s.estimateRepo.FindByStatus(ctx, tenantID, *status, filter)
	} else {
		estimates, err = s.estimateRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.estimateRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]EstimateResponse, len(estimates))
	for i := range estimates {
		items[i] = ToEstimateResponse(&estimates[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Send assigns the estimate number and moves the draft to sent. Estimates
// never touch the ledger, so unlike invoice finalization only the number
// allocation shares the transaction.
func (s *EstimateService) Send(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	var response EstimateResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		est, err := repos.EstimateRepo().FindByIDForTenantForUpdate(ctx, tenantID, estimateID)
		if err != nil {
			return err
		}

		generator := billing.NewNumberGenerator(repos.SequenceRepo(), s.profile.Numbering)
		number, err := generator.Next(ctx, tenantID, billing.DocumentKindEstimate, est.IssueDate)
		if err != nil {
			return err
		}

		if err := est.Send(number); err != nil {
			return err
		}
		if err := repos.EstimateRepo().SaveWithLock(ctx, est); err != nil {
			return err
		}

		events = est.GetDomainEvents()
		est.ClearDomainEvents()
		response = ToEstimateResponse(est)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &response, nil
}

// Accept marks a sent estimate as accepted by the customer
func (s *EstimateService) Accept(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, (*billing.Estimate).Accept)
}

// Decline marks a sent estimate as declined by the customer
func (s *EstimateService) Decline(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, (*billing.Estimate).Decline)
}

// Expire marks a sent estimate as expired once its expiry date has passed
func (s *EstimateService) Expire(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, func(est *billing.Estimate) error {
		return est.Expire(time.Now())
	})
}

// ExpireOverdue sweeps all sent estimates whose expiry date has passed and
// marks them expired. Returns the number of estimates expired; a failure on
// one estimate does not stop the sweep.
func (s *EstimateService) ExpireOverdue(ctx context.Context, tenantID uuid.UUID) (int, error) {
	asOf := time.Now()
	estimates, err := s.estimateRepo.FindExpirable(ctx, tenantID, asOf)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range estimates {
		est := &estimates[i]
		if err := est.Expire(asOf); err != nil {
			continue
		}
		if err := s.estimateRepo.SaveWithLock(ctx, est); err != nil {
			continue
		}
		s.publish(ctx, est.GetDomainEvents())
		est.ClearDomainEvents()
		expired++
	}
	return expired, nil
}

// ConvertToInvoice materializes an accepted estimate into a finalized sales
// invoice. Lines are deep-copied with fresh identities, a fresh invoice
// number is drawn from the sequence and the journal entry is posted, all in
// the same transaction as the estimate's invoiced mark. A failure at any
// step leaves no trace: no number is consumed, no invoice is written.
func (s *EstimateService) ConvertToInvoice(ctx context.Context, tenantID, estimateID uuid.UUID) (*InvoiceResponse, error) {
	var response InvoiceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		est, err := repos.EstimateRepo().FindByIDForTenantForUpdate(ctx, tenantID, estimateID)
		if err != nil {
			return err
		}
		if est.Status != billing.EstimateStatusAccepted {
			return shared.NewStateError("Only accepted estimates can be converted to invoices")
		}

		inv, err := billing.NewSalesInvoice(
			tenantID,
			est.CustomerID,
			est.CustomerName,
			est.CompanyState,
			est.PlaceOfSupply,
			est.TaxRate,
			time.Now(),
			nil,
		)
		if err != nil {
			return err
		}
		inv.SourceEstimateID = &est.ID

		lines := make([]billing.LineItem, 0, len(est.Lines))
		for _, src := range est.Lines {
			line, err := billing.NewLineItem(uuid.Nil, src.Position, src.ProductID,
				src.Description, src.HSNCode, src.Quantity, valueobject.NewMoneyINR(src.UnitPrice))
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}
		if err := inv.ReplaceLines(lines); err != nil {
			return err
		}
		if est.Notes != "" {
			if err := inv.SetNotes(est.Notes); err != nil {
				return err
			}
		}

		generator := billing.NewNumberGenerator(repos.SequenceRepo(), s.profile.Numbering)
		number, err := generator.Next(ctx, tenantID, billing.DocumentKindSalesInvoice, inv.IssueDate)
		if err != nil {
			return err
		}
		if err := inv.Finalize(number); err != nil {
			return err
		}

		settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		poster := ledger.NewPoster(settings)
		entry, err := poster.PostSalesInvoice(invoicePostingSource(inv))
		if err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, entry); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		if err := est.MarkInvoiced(inv.ID); err != nil {
			return err
		}
		if err := repos.EstimateRepo().SaveWithLock(ctx, est); err != nil {
			return err
		}

		events = append(est.GetDomainEvents(), inv.GetDomainEvents()...)
		events = append(events, entry.GetDomainEvents()...)
		est.ClearDomainEvents()
		inv.ClearDomainEvents()
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &response, nil
}

// Delete removes a draft estimate
func (s *EstimateService) Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error {
	est, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return err
	}
	if est.IsSent() {
		return shared.NewStateError("Sent estimates cannot be deleted")
	}
	return s.estimateRepo.DeleteForTenant(ctx, tenantID, estimateID)
}

// transition loads the estimate, applies a state change and saves it
func (s *EstimateService) transition(ctx context.Context, tenantID, estimateID uuid.UUID, fn func(*billing.Estimate) error) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	if err := fn(est); err != nil {
		return nil, err
	}
	if err := s.estimateRepo.SaveWithLock(ctx, est); err != nil {
		return nil, err
	}
	s.publish(ctx, est.GetDomainEvents())
	est.ClearDomainEvents()

	response := ToEstimateResponse(est)
	return &response, nil
}

func (s *EstimateService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
