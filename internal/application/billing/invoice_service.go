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

// InvoiceService handles sales invoice business operations
type InvoiceService struct {
	scope          TransactionScope
	invoiceRepo    billing.SalesInvoiceRepository
	customerRepo   partner.CustomerRepository
	profile        CompanyProfile
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	scope TransactionScope,
	invoiceRepo billing.SalesInvoiceRepository,
	customerRepo partner.CustomerRepository,
	profile CompanyProfile,
) *InvoiceService {
	return &InvoiceService{
		scope:        scope,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		profile:      profile,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft sales invoice. The customer's state code
// becomes the place of supply, which fixes the document's IGST-or-CGST/SGST
// profile until the draft is edited again.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewStateError("Cannot raise documents for an inactive customer")
	}

	inv, err := billing.NewSalesInvoice(
		tenantID,
		customer.ID,
		customer.Name,
		s.profile.State,
		customer.StateCode,
		s.profile.taxRateOrDefault(req.TaxRate),
		req.IssueDate,
		req.DueDate,
	)
	if err != nil {
		return nil, err
	}

	if len(req.Lines) > 0 {
		lines, err := buildLineItems(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := inv.ReplaceLines(lines); err != nil {
			return nil, err
		}
		if err := verifyDeclaredTaxes(req.Lines, inv.Lines); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := inv.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Update replaces a draft invoice's lines and editable header fields
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanModify() {
		return nil, shared.NewStateError("Only draft invoices can be edited")
	}

	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}

	lines, err := buildLineItems(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := inv.ReplaceLines(lines); err != nil {
		return nil, err
	}
	if err := verifyDeclaredTaxes(req.Lines, inv.Lines); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		if err := inv.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves a sales invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices for a tenant with optional status filtering
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, status *billing.InvoiceStatus, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	var invoices []billing.SalesInvoice
	var err error
	if status != nil {
		invoices, err = s.invoiceRepo.FindByStatus(ctx, tenantID, *status, filter)
	} else {
		invoices, err = s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Finalize assigns the permanent number, moves the draft to sent and posts
// the journal entry, all in one transaction. A failure at any step leaves
// no trace: no number is consumed and no entry is written.
func (s *InvoiceService) Finalize(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var response InvoiceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForTenantForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
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

		if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}

		events = append(inv.GetDomainEvents(), entry.GetDomainEvents()...)
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

// ApplyPayment records a payment against a finalized invoice and posts the
// receipt entry. The invoice is re-read under a row lock inside the
// transaction so two concurrent payments cannot both pass the overpayment
// check.
func (s *InvoiceService) ApplyPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req ApplyPaymentRequest) (*InvoiceResponse, error) {
	var response InvoiceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForTenantForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		payment, err := inv.ApplyPayment(valueobject.NewMoneyINR(req.Amount), req.PaymentDate, req.Method, req.Reference, req.Notes)
		if err != nil {
			return err
		}

		settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		poster := ledger.NewPoster(settings)
		entry, err := poster.PostInvoicePayment(invoicePostingSource(inv), payment.Amount, payment.PaymentDate)
		if err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, entry); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}

		events = append(inv.GetDomainEvents(), entry.GetDomainEvents()...)
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

// Void cancels an invoice. A finalized invoice keeps its number and gets
// its journal entries mirrored by reversing entries; a draft just flips
// state.
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID uuid.UUID, req VoidRequest) (*InvoiceResponse, error) {
	var response InvoiceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForTenantForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		wasFinalized := inv.IsFinalized()
		if err := inv.Void(req.Reason); err != nil {
			return err
		}

		if wasFinalized {
			settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
			if err != nil {
				return err
			}
			poster := ledger.NewPoster(settings)
			now := time.Now()
			if err := reverseSourceEntries(ctx, repos.JournalRepo(), poster, tenantID,
				ledger.SourceTypeSalesInvoice, inv.ID, now, req.Reason); err != nil {
				return err
			}
			if err := reverseSourceEntries(ctx, repos.JournalRepo(), poster, tenantID,
				ledger.SourceTypePayment, inv.ID, now, req.Reason); err != nil {
				return err
			}
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}

		events = inv.GetDomainEvents()
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

// Submit is the one-shot entry point: create the draft (or update an
// existing one) and finalize it in a single transaction
func (s *InvoiceService) Submit(ctx context.Context, tenantID uuid.UUID, req SubmitInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewStateError("Cannot raise documents for an inactive customer")
	}

	var response InvoiceResponse
	var events []shared.DomainEvent

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var inv *billing.SalesInvoice
		if req.InvoiceID != nil {
			inv, err = repos.InvoiceRepo().FindByIDForTenantForUpdate(ctx, tenantID, *req.InvoiceID)
			if err != nil {
				return err
			}
			if !inv.CanModify() {
				return shared.NewStateError("Only draft invoices can be submitted again")
			}
			inv.IssueDate = req.IssueDate
			inv.DueDate = req.DueDate
			if req.TaxRate != nil {
				inv.TaxRate = *req.TaxRate
			}
		} else {
			inv, err = billing.NewSalesInvoice(tenantID, customer.ID, customer.Name,
				s.profile.State, customer.StateCode, s.profile.taxRateOrDefault(req.TaxRate),
				req.IssueDate, req.DueDate)
			if err != nil {
				return err
			}
		}

		lines, err := buildLineItems(req.Lines)
		if err != nil {
			return err
		}
		if err := inv.ReplaceLines(lines); err != nil {
			return err
		}
		if err := verifyDeclaredTaxes(req.Lines, inv.Lines); err != nil {
			return err
		}
		if req.Notes != "" {
			if err := inv.SetNotes(req.Notes); err != nil {
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

		if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}

		events = append(inv.GetDomainEvents(), entry.GetDomainEvents()...)
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

// Delete removes a draft invoice. Finalized invoices are never deleted;
// they are voided.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if inv.IsFinalized() {
		return shared.NewStateError("Finalized invoices cannot be deleted, void them instead")
	}
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

// OutstandingByCustomer returns the customer's total open receivable
func (s *InvoiceService) OutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*OutstandingSummary, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.invoiceRepo.SumOutstandingByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return &OutstandingSummary{
		PartyID:     customer.ID,
		PartyName:   customer.Name,
		Outstanding: outstanding,
	}, nil
}

// publish forwards domain events when a publisher is wired. Publishing is
// best-effort: the transaction has already committed.
func (s *InvoiceService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
