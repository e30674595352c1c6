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

// BillService handles purchase bill business operations
type BillService struct {
	scope          TransactionScope
	billRepo       billing.PurchaseBillRepository
	supplierRepo   partner.SupplierRepository
	profile        CompanyProfile
	eventPublisher shared.EventPublisher
}

// NewBillService creates a new BillService
func NewBillService(
	scope TransactionScope,
	billRepo billing.PurchaseBillRepository,
	supplierRepo partner.SupplierRepository,
	profile CompanyProfile,
) *BillService {
	return &BillService{
		scope:        scope,
		billRepo:     billRepo,
		supplierRepo: supplierRepo,
		profile:      profile,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BillService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft purchase bill. The supplier is the issuer, so
// the supplier's state and the company state swap roles compared to an
// invoice when deciding the tax split.
func (s *BillService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewStateError("Cannot raise documents for an inactive supplier")
	}

	bill, err := billing.NewPurchaseBill(
		tenantID,
		supplier.ID,
		supplier.Name,
		supplier.StateCode,
		s.profile.State,
		s.profile.taxRateOrDefault(req.TaxRate),
		req.IssueDate,
		req.DueDate,
	)
	if err != nil {
		return nil, err
	}

	if req.SupplierBillNumber != "" {
		if err := bill.SetSupplierBillNumber(req.SupplierBillNumber); err != nil {
			return nil, err
		}
	}
	if len(req.Lines) > 0 {
		lines, err := buildLineItems(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := bill.ReplaceLines(lines); err != nil {
			return nil, err
		}
		if err := verifyDeclaredTaxes(req.Lines, bill.Lines); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := bill.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	s.publish(ctx, bill.GetDomainEvents())
	bill.ClearDomainEvents()

	response := ToBillResponse(bill)
	return &response, nil
}

// Update replaces a draft bill's lines and editable header fields
func (s *BillService) Update(ctx context.Context, tenantID, billID uuid.UUID, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if !bill.CanModify() {
		return nil, shared.NewStateError("Only draft bills can be edited")
	}

	if req.IssueDate != nil {
		bill.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		bill.DueDate = req.DueDate
	}
	if req.TaxRate != nil {
		bill.TaxRate = *req.TaxRate
	}
	if req.SupplierBillNumber != nil {
		if err := bill.SetSupplierBillNumber(*req.SupplierBillNumber); err != nil {
			return nil, err
		}
	}

	lines, err := buildLineItems(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := bill.ReplaceLines(lines); err != nil {
		return nil, err
	}
	if err := verifyDeclaredTaxes(req.Lines, bill.Lines); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		if err := bill.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID retrieves a purchase bill by ID
func (s *BillService) GetByID(ctx context.Context, tenantID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves bills for a tenant with optional status filtering
func (s *BillService) List(ctx context.Context, tenantID uuid.UUID, status *billing.BillStatus, filter shared.Filter) (*shared.Paginated[BillResponse], error) {
	var bills []billing.PurchaseBill
	var err error
	if status != nil {
		bills, err = s.billRepo.FindByStatus(ctx, tenantID, *status, filter)
	} else {
		bills, err = s.billRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.billRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BillResponse, len(bills))
	for i := range bills {
		items[i] = ToBillResponse(&bills[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Submit assigns the internal bill number, moves the draft to submitted and
// posts the expense entry, all in one transaction
func (s *BillService) Submit(ctx context.Context, tenantID, billID uuid.UUID) (*BillResponse, error) {
	var response BillResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForTenantForUpdate(ctx, tenantID, billID)
		if err != nil {
			return err
		}

		generator := billing.NewNumberGenerator(repos.SequenceRepo(), s.profile.Numbering)
		number, err := generator.Next(ctx, tenantID, billing.DocumentKindPurchaseBill, bill.IssueDate)
		if err != nil {
			return err
		}

		if err := bill.Submit(number); err != nil {
			return err
		}

		settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		poster := ledger.NewPoster(settings)
		entry, err := poster.PostPurchaseBill(billPostingSource(bill))
		if err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, entry); err != nil {
			return err
		}

		if err := repos.BillRepo().SaveWithLock(ctx, bill); err != nil {
			return err
		}

		events = append(bill.GetDomainEvents(), entry.GetDomainEvents()...)
		bill.ClearDomainEvents()
		response = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &response, nil
}

// ApplyPayment records a payment against a submitted bill and posts the
// disbursement entry under a row lock
func (s *BillService) ApplyPayment(ctx context.Context, tenantID, billID uuid.UUID, req ApplyPaymentRequest) (*BillResponse, error) {
	var response BillResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForTenantForUpdate(ctx, tenantID, billID)
		if err != nil {
			return err
		}

		payment, err := bill.ApplyPayment(valueobject.NewMoneyINR(req.Amount), req.PaymentDate, req.Method, req.Reference, req.Notes)
		if err != nil {
			return err
		}

		settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		poster := ledger.NewPoster(settings)
		entry, err := poster.PostBillPayment(billPostingSource(bill), payment.Amount, payment.PaymentDate)
		if err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, entry); err != nil {
			return err
		}

		if err := repos.BillRepo().SaveWithLock(ctx, bill); err != nil {
			return err
		}

		events = append(bill.GetDomainEvents(), entry.GetDomainEvents()...)
		bill.ClearDomainEvents()
		response = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &response, nil
}

// Void cancels a bill, reversing its journal entries when it was submitted
func (s *BillService) Void(ctx context.Context, tenantID, billID uuid.UUID, req VoidRequest) (*BillResponse, error) {
	var response BillResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForTenantForUpdate(ctx, tenantID, billID)
		if err != nil {
			return err
		}

		wasSubmitted := bill.IsSubmitted()
		if err := bill.Void(req.Reason); err != nil {
			return err
		}

		if wasSubmitted {
			settings, err := repos.SettingsRepo().FindForTenant(ctx, tenantID)
			if err != nil {
				return err
			}
			poster := ledger.NewPoster(settings)
			now := time.Now()
			if err := reverseSourceEntries(ctx, repos.JournalRepo(), poster, tenantID,
				ledger.SourceTypePurchaseBill, bill.ID, now, req.Reason); err != nil {
				return err
			}
			if err := reverseSourceEntries(ctx, repos.JournalRepo(), poster, tenantID,
				ledger.SourceTypePayment, bill.ID, now, req.Reason); err != nil {
				return err
			}
		}

		if err := repos.BillRepo().SaveWithLock(ctx, bill); err != nil {
			return err
		}

		events = bill.GetDomainEvents()
		bill.ClearDomainEvents()
		response = ToBillResponse(bill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &response, nil
}

// Delete removes a draft bill
func (s *BillService) Delete(ctx context.Context, tenantID, billID uuid.UUID) error {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return err
	}
	if bill.IsSubmitted() {
		return shared.NewStateError("Submitted bills cannot be deleted, void them instead")
	}
	return s.billRepo.DeleteForTenant(ctx, tenantID, billID)
}

// OutstandingBySupplier returns the supplier's total open payable
func (s *BillService) OutstandingBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (*OutstandingSummary, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.billRepo.SumOutstandingBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	return &OutstandingSummary{
		PartyID:     supplier.ID,
		PartyName:   supplier.Name,
		Outstanding: outstanding,
	}, nil
}

func (s *BillService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
