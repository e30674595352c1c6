package billing

import (
	"context"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories for service tests. They are deliberately naive:
// maps keyed by ID, no real locking, copies on read so tests catch services
// that forget to save.

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*billing.SalesInvoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*billing.SalesInvoice)}
}

func (r *fakeInvoiceRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.SalesInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.SalesInvoice, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakeInvoiceRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*billing.SalesInvoice, error) {
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.InvoiceNumber == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]billing.SalesInvoice, error) {
	var out []billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status billing.InvoiceStatus, _ shared.Filter) ([]billing.SalesInvoice, error) {
	var out []billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.Status == status {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID, _ shared.Filter) ([]billing.SalesInvoice, error) {
	var out []billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.CustomerID == customerID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindOutstanding(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]billing.SalesInvoice, error) {
	var out []billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.IsFinalized() && inv.Outstanding().IsPositive() {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, inv *billing.SalesInvoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) SaveWithLock(ctx context.Context, inv *billing.SalesInvoice) error {
	return r.Save(ctx, inv)
}

func (r *fakeInvoiceRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	inv, ok := r.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeInvoiceRepo) SumOutstandingByCustomer(_ context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.CustomerID == customerID && inv.IsFinalized() && inv.Status != billing.InvoiceStatusVoid {
			total = total.Add(inv.Outstanding())
		}
	}
	return total, nil
}

type fakeBillRepo struct {
	bills map[uuid.UUID]*billing.PurchaseBill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]*billing.PurchaseBill)}
}

func (r *fakeBillRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.PurchaseBill, error) {
	b, ok := r.bills[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBillRepo) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.PurchaseBill, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakeBillRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*billing.PurchaseBill, error) {
	for _, b := range r.bills {
		if b.TenantID == tenantID && b.BillNumber == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBillRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]billing.PurchaseBill, error) {
	var out []billing.PurchaseBill
	for _, b := range r.bills {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status billing.BillStatus, _ shared.Filter) ([]billing.PurchaseBill, error) {
	var out []billing.PurchaseBill
	for _, b := range r.bills {
		if b.TenantID == tenantID && b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) FindBySupplier(_ context.Context, tenantID, supplierID uuid.UUID, _ shared.Filter) ([]billing.PurchaseBill, error) {
	var out []billing.PurchaseBill
	for _, b := range r.bills {
		if b.TenantID == tenantID && b.SupplierID == supplierID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) FindOutstanding(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]billing.PurchaseBill, error) {
	var out []billing.PurchaseBill
	for _, b := range r.bills {
		if b.TenantID == tenantID && b.IsSubmitted() && b.Outstanding().IsPositive() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) Save(_ context.Context, b *billing.PurchaseBill) error {
	cp := *b
	r.bills[b.ID] = &cp
	return nil
}

func (r *fakeBillRepo) SaveWithLock(ctx context.Context, b *billing.PurchaseBill) error {
	return r.Save(ctx, b)
}

func (r *fakeBillRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	b, ok := r.bills[id]
	if !ok || b.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, b := range r.bills {
		if b.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBillRepo) SumOutstandingBySupplier(_ context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.bills {
		if b.TenantID == tenantID && b.SupplierID == supplierID && b.IsSubmitted() && b.Status != billing.BillStatusVoid {
			total = total.Add(b.Outstanding())
		}
	}
	return total, nil
}

type fakeEstimateRepo struct {
	estimates map[uuid.UUID]*billing.Estimate
}

func newFakeEstimateRepo() *fakeEstimateRepo {
	return &fakeEstimateRepo{estimates: make(map[uuid.UUID]*billing.Estimate)}
}

func (r *fakeEstimateRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	e, ok := r.estimates[id]
	if !ok || e.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEstimateRepo) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakeEstimateRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*billing.Estimate, error) {
	for _, e := range r.estimates {
		if e.TenantID == tenantID && e.EstimateNumber == number {
			cp := *e
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeEstimateRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]billing.Estimate, error) {
	var out []billing.Estimate
	for _, e := range r.estimates {
		if e.TenantID == tenantID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status billing.EstimateStatus, _ shared.Filter) ([]billing.Estimate, error) {
	var out []billing.Estimate
	for _, e := range r.estimates {
		if e.TenantID == tenantID && e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID, _ shared.Filter) ([]billing.Estimate, error) {
	var out []billing.Estimate
	for _, e := range r.estimates {
		if e.TenantID == tenantID && e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) FindExpirable(_ context.Context, tenantID uuid.UUID, asOf time.Time) ([]billing.Estimate, error) {
	var out []billing.Estimate
	for _, e := range r.estimates {
		if e.TenantID == tenantID && e.IsExpirable(asOf) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEstimateRepo) Save(_ context.Context, e *billing.Estimate) error {
	cp := *e
	r.estimates[e.ID] = &cp
	return nil
}

func (r *fakeEstimateRepo) SaveWithLock(ctx context.Context, e *billing.Estimate) error {
	return r.Save(ctx, e)
}

func (r *fakeEstimateRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	e, ok := r.estimates[id]
	if !ok || e.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.estimates, id)
	return nil
}

func (r *fakeEstimateRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, e := range r.estimates {
		if e.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// fakeSequenceRepo allocates per tenant/kind/period counters in memory
type fakeSequenceRepo struct {
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (r *fakeSequenceRepo) Next(_ context.Context, tenantID uuid.UUID, kind billing.DocumentKind, period string) (int64, error) {
	key := strings.Join([]string{tenantID.String(), kind.String(), period}, "/")
	r.counters[key]++
	return r.counters[key], nil
}

type fakeJournalRepo struct {
	entries []ledger.JournalEntry
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{}
}

func (r *fakeJournalRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.JournalEntry, error) {
	for i := range r.entries {
		if r.entries[i].TenantID == tenantID && r.entries[i].ID == id {
			cp := r.entries[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeJournalRepo) FindBySource(_ context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for i := range r.entries {
		e := r.entries[i]
		if e.TenantID == tenantID && e.SourceType == sourceType && e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeJournalRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for i := range r.entries {
		if r.entries[i].TenantID == tenantID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeJournalRepo) FindByDateRange(_ context.Context, tenantID uuid.UUID, from, to time.Time, _ shared.Filter) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for i := range r.entries {
		e := r.entries[i]
		if e.TenantID == tenantID && !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeJournalRepo) Save(_ context.Context, entry *ledger.JournalEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeJournalRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for i := range r.entries {
		if r.entries[i].TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeJournalRepo) SumTotals(_ context.Context, tenantID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	for i := range r.entries {
		if r.entries[i].TenantID == tenantID {
			debit = debit.Add(r.entries[i].TotalDebit)
			credit = credit.Add(r.entries[i].TotalCredit)
		}
	}
	return debit, credit, nil
}

type fakeSettingsRepo struct {
	settings map[uuid.UUID]*ledger.LedgerSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[uuid.UUID]*ledger.LedgerSettings)}
}

func (r *fakeSettingsRepo) FindForTenant(_ context.Context, tenantID uuid.UUID) (*ledger.LedgerSettings, error) {
	s, ok := r.settings[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *ledger.LedgerSettings) error {
	r.settings[s.TenantID] = s
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) SearchByName(_ context.Context, tenantID uuid.UUID, query string, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		if c.TenantID == tenantID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok || c.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, c := range r.customers {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*partner.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *fakeSupplierRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok || s.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSupplierRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]partner.Supplier, error) {
	var out []partner.Supplier
	for _, s := range r.suppliers {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) SearchByName(_ context.Context, tenantID uuid.UUID, query string, _ shared.Filter) ([]partner.Supplier, error) {
	var out []partner.Supplier
	for _, s := range r.suppliers {
		if s.TenantID == tenantID && strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok || s.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, s := range r.suppliers {
		if s.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// testEnv bundles the fakes a billing service test needs
type testEnv struct {
	tenantID     uuid.UUID
	scope        *NoOpTransactionScope
	invoiceRepo  *fakeInvoiceRepo
	billRepo     *fakeBillRepo
	estimateRepo *fakeEstimateRepo
	sequenceRepo *fakeSequenceRepo
	journalRepo  *fakeJournalRepo
	settingsRepo *fakeSettingsRepo
	customerRepo *fakeCustomerRepo
	supplierRepo *fakeSupplierRepo
	accounts     testChartAccounts
}

type testChartAccounts struct {
	receivable uuid.UUID
	payable    uuid.UUID
	revenue    uuid.UUID
	expense    uuid.UUID
	cash       uuid.UUID
	igstOut    uuid.UUID
	cgstOut    uuid.UUID
	sgstOut    uuid.UUID
	igstIn     uuid.UUID
	cgstIn     uuid.UUID
	sgstIn     uuid.UUID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tenantID:     uuid.New(),
		invoiceRepo:  newFakeInvoiceRepo(),
		billRepo:     newFakeBillRepo(),
		estimateRepo: newFakeEstimateRepo(),
		sequenceRepo: newFakeSequenceRepo(),
		journalRepo:  newFakeJournalRepo(),
		settingsRepo: newFakeSettingsRepo(),
		customerRepo: newFakeCustomerRepo(),
		supplierRepo: newFakeSupplierRepo(),
		accounts: testChartAccounts{
			receivable: uuid.New(),
			payable:    uuid.New(),
			revenue:    uuid.New(),
			expense:    uuid.New(),
			cash:       uuid.New(),
			igstOut:    uuid.New(),
			cgstOut:    uuid.New(),
			sgstOut:    uuid.New(),
			igstIn:     uuid.New(),
			cgstIn:     uuid.New(),
			sgstIn:     uuid.New(),
		},
	}
	env.scope = NewNoOpTransactionScope(
		env.invoiceRepo, env.billRepo, env.estimateRepo,
		env.sequenceRepo, env.journalRepo, env.settingsRepo,
	)

	settings := ledger.NewLedgerSettings(env.tenantID)
	settings.Update(
		&env.accounts.receivable, &env.accounts.payable,
		&env.accounts.revenue, &env.accounts.expense, &env.accounts.cash,
		ledger.TaxAccountMap{
			"IGST": env.accounts.igstOut,
			"CGST": env.accounts.cgstOut,
			"SGST": env.accounts.sgstOut,
		},
		ledger.TaxAccountMap{
			"IGST": env.accounts.igstIn,
			"CGST": env.accounts.cgstIn,
			"SGST": env.accounts.sgstIn,
		},
	)
	env.settingsRepo.settings[env.tenantID] = settings

	return env
}

func (env *testEnv) addCustomer(name, stateCode string) *partner.Customer {
	c, err := partner.NewCustomer(env.tenantID, name, stateCode, "")
	if err != nil {
		panic(err)
	}
	env.customerRepo.customers[c.ID] = c
	return c
}

func (env *testEnv) addSupplier(name, stateCode string) *partner.Supplier {
	s, err := partner.NewSupplier(env.tenantID, name, stateCode, "")
	if err != nil {
		panic(err)
	}
	env.supplierRepo.suppliers[s.ID] = s
	return s
}
