package partner

import (
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	StateCode string `json:"state_code" binding:"required,min=1,max=10"`
	GSTIN     string `json:"gstin" binding:"max=15"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Address   string `json:"address" binding:"max=2000"`
	Notes     string `json:"notes" binding:"max=1000"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	StateCode string `json:"state_code" binding:"required,min=1,max=10"`
	GSTIN     string `json:"gstin" binding:"max=15"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Address   string `json:"address" binding:"max=2000"`
	Notes     string `json:"notes" binding:"max=1000"`
}

// CustomerResponse represents a customer in responses
type CustomerResponse struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	StateCode string                 `json:"state_code"`
	GSTIN     string                 `json:"gstin,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Status    partner.CustomerStatus `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ToCustomerResponse converts a Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		StateCode: c.StateCode,
		GSTIN:     c.GSTIN,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Status:    c.Status,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	StateCode string `json:"state_code" binding:"required,min=1,max=10"`
	GSTIN     string `json:"gstin" binding:"max=15"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Address   string `json:"address" binding:"max=2000"`
	Notes     string `json:"notes" binding:"max=1000"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	StateCode string `json:"state_code" binding:"required,min=1,max=10"`
	GSTIN     string `json:"gstin" binding:"max=15"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Address   string `json:"address" binding:"max=2000"`
	Notes     string `json:"notes" binding:"max=1000"`
}

// SupplierResponse represents a supplier in responses
type SupplierResponse struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	StateCode string                 `json:"state_code"`
	GSTIN     string                 `json:"gstin,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Status    partner.SupplierStatus `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ToSupplierResponse converts a Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		StateCode: s.StateCode,
		GSTIN:     s.GSTIN,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Status:    s.Status,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
