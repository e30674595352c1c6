package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// gstinPattern matches the 15-character GST identification number
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)

// Customer represents a buyer in the partner context.
// Its state code decides the place of supply on documents raised for it.
type Customer struct {
	shared.TenantAggregateRoot
	Name      string         `gorm:"type:varchar(200);not null"`
	StateCode string         `gorm:"type:varchar(10);not null"` // GST jurisdiction
	GSTIN     string         `gorm:"type:varchar(15)"`          // empty for unregistered customers
	Email     string         `gorm:"type:varchar(200);index"`
	Phone     string         `gorm:"type:varchar(50)"`
	Address   string         `gorm:"type:text"`
	Status    CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(tenantID uuid.UUID, name, stateCode, gstin string) (*Customer, error) {
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

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		StateCode:           stateCode,
		GSTIN:               gstin,
		Status:              CustomerStatusActive,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update changes the customer's details
func (c *Customer) Update(name, stateCode, gstin, email, phone, address, notes string) error {
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

	c.Name = name
	c.StateCode = stateCode
	c.GSTIN = gstin
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// Deactivate hides the customer from selection on new documents
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewStateError("Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	return nil
}

// Activate re-enables the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewStateError("Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if documents can be raised for the customer
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

func validatePartyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Name cannot exceed 200 characters")
	}
	return nil
}

func validateStateCode(stateCode string) error {
	if strings.TrimSpace(stateCode) == "" {
		return shared.NewValidationError("State code cannot be empty")
	}
	if len(stateCode) > 10 {
		return shared.NewValidationError("State code cannot exceed 10 characters")
	}
	return nil
}

func validateGSTIN(gstin string) error {
	if gstin == "" {
		return nil
	}
	if !gstinPattern.MatchString(gstin) {
		return shared.NewValidationError("GSTIN format is invalid")
	}
	return nil
}
