package partner

import (
	"context"
	"strings"
	"testing"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestCustomerService_Create(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())
	tenantID := uuid.New()

	resp, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{
		Name:      "Acme Traders",
		StateCode: "29",
		GSTIN:     "29abcde1234f1z5",
		Email:     "billing@acme.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Traders", resp.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", resp.GSTIN)
	assert.Equal(t, partner.CustomerStatusActive, resp.Status)
	assert.Equal(t, "billing@acme.example", resp.Email)
}

func TestCustomerService_Create_InvalidGSTIN(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateCustomerRequest{
		Name:      "Acme Traders",
		StateCode: "29",
		GSTIN:     "not-a-gstin",
	})
	assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
}

func TestCustomerService_Update(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{
		Name:      "Acme Traders",
		StateCode: "29",
	})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), tenantID, created.ID, UpdateCustomerRequest{
		Name:      "Acme Traders Pvt Ltd",
		StateCode: "27",
		Phone:     "+91 9000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders Pvt Ltd", resp.Name)
	assert.Equal(t, "27", resp.StateCode)
}

func TestCustomerService_Deactivate(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{
		Name:      "Acme Traders",
		StateCode: "29",
	})
	require.NoError(t, err)

	resp, err := svc.Deactivate(context.Background(), tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, partner.CustomerStatusInactive, resp.Status)

	_, err = svc.Deactivate(context.Background(), tenantID, created.ID)
	assert.True(t, shared.IsDomainError(err, shared.CodeInvalidState))

	resp, err = svc.Activate(context.Background(), tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, partner.CustomerStatusActive, resp.Status)
}

func TestCustomerService_List_Search(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)
	tenantID := uuid.New()

	for _, name := range []string{"Acme Traders", "Acme Metals", "Zenith Exports"} {
		_, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{
			Name:      name,
			StateCode: "29",
		})
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), tenantID, "acme", shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}

func TestCustomerService_WrongTenant(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), uuid.New(), CreateCustomerRequest{
		Name:      "Acme Traders",
		StateCode: "29",
	})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), uuid.New(), created.ID)
	assert.True(t, shared.IsDomainError(err, shared.CodeNotFound))
}
