package partner

import (
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a vendor in the partner context.
// Its state code is the issuing jurisdiction on purchase bills.
type Supplier struct {
	shared.TenantAggregateRoot
	Name      string         `gorm:"type:varchar(200);not null"`
	StateCode string         `gorm:"type:varchar(10);not null"` // GST jurisdiction
	GSTIN     string         `gorm:"type:varchar(15)"`          // empty for unregistered suppliers
	Email     string         `gorm:"type:varchar(200);index"`
	Phone     string         `gorm:"type:varchar(50)"`
	Address   string         `gorm:"type:text"`
	Status    SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(tenantID uuid.UUID, name, stateCode, gstin string) (*Supplier, error) {
	if err := validatePartyName(name); err != nil {
		return nil, err
	}
	if err := validateStateCode(stateCode); err != nil {
		return nil, err
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if err := validateGSTIN(gstin); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		StateCode:           stateCode,
		GSTIN:               gstin,
		Status:              SupplierStatusActive,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update changes the supplier's details
func (s *Supplier) Update(name, stateCode, gstin, email, phone, address, notes string) error {
	if err := validatePartyName(name); err != nil {
		return err
	}
	if err := validateStateCode(stateCode); err != nil {
		return err
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if err := validateGSTIN(gstin); err != nil {
		return err
	}

	s.Name = name
	s.StateCode = stateCode
	s.GSTIN = gstin
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.Notes = notes
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// Deactivate hides the supplier from selection on new documents
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewStateError("Supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	return nil
}

// Activate re-enables the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewStateError("Supplier is already active")
	}
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if documents can be raised for the supplier
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
