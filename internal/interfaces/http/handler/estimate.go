package handler

import (
	"context"

	billingapp "github.com/finbooks/backend/internal/application/billing"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EstimateHandler handles estimate API endpoints
type EstimateHandler struct {
	BaseHandler
	estimateService *billingapp.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler
func NewEstimateHandler(estimateService *billingapp.EstimateService) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
	}
}

// Create godoc
// @ID           createEstimate
// @Summary      Create a draft estimate
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateEstimateRequest true "Estimate creation request"
// @Success      201 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates [post]
func (h *EstimateHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	estimate, err := h.estimateService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, estimate)
}

// GetByID godoc
// @ID           getEstimateById
// @Summary      Get estimate by ID
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id} [get]
func (h *EstimateHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimate ID format")
		return
	}

	estimate, err := h.estimateService.GetByID(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, estimate)
}

// List godoc
// @ID           listEstimates
// @Summary      List estimates
// @Tags         estimates
// @Produce      json
// @Param        status query string false "Estimate status" Enums(DRAFT, SENT, ACCEPTED, DECLINED, EXPIRED, CONVERTED)
// @Param        search query string false "Search term (estimate number, customer name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(issue_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates [get]
func (h *EstimateHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *billing.EstimateStatus
	if raw := c.Query("status"); raw != "" {
		s := billing.EstimateStatus(raw)
		if !s.IsValid() {
			h.BadRequest(c, "Invalid estimate status")
			return
		}
		status = &s
	}

	result, err := h.estimateService.List(c.Request.Context(), tenantID, status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateEstimate
// @Summary      Update a draft estimate
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Param        request body billing.UpdateEstimateRequest true "Estimate update request"
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id} [put]
func (h *EstimateHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimate ID format")
		return
	}

	var req billingapp.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	estimate, err := h.estimateService.Update(c.Request.Context(), tenantID, estimateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, estimate)
}

// Send godoc
// @ID           sendEstimate
// @Summary      Send an estimate
// @Description  Assigns the estimate number and moves the estimate to SENT
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id}/send [post]
func (h *EstimateHandler) Send(c *gin.Context) {
	h.transition(c, h.estimateService.Send)
}

// Accept godoc
// @ID           acceptEstimate
// @Summary      Accept a sent estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id}/accept [post]
func (h *EstimateHandler) Accept(c *gin.Context) {
	h.transition(c, h.estimateService.Accept)
}

// Decline godoc
// @ID           declineEstimate
// @Summary      Decline a sent estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id}/decline [post]
func (h *EstimateHandler) Decline(c *gin.Context) {
	h.transition(c, h.estimateService.Decline)
}

// Expire godoc
// @ID           expireEstimate
// @Summary      Mark a sent estimate as expired
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      200 {object} APIResponse[billing.EstimateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id}/expire [post]
func (h *EstimateHandler) Expire(c *gin.Context) {
	h.transition(c, h.estimateService.Expire)
}

// ExpireOverdue godoc
// @ID           expireOverdueEstimates
// @Summary      Expire all sent estimates past their expiry date
// @Description  Sweeps the tenant's sent estimates and expires the overdue ones
// @Tags         estimates
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/expire-overdue [post]
func (h *EstimateHandler) ExpireOverdue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	count, err := h.estimateService.ExpireOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}

// ConvertToInvoice godoc
// @ID           convertEstimateToInvoice
// @Summary      Convert an accepted estimate into a finalized invoice
// @Description  Copies the estimate's lines into a new invoice, assigns a fresh invoice number, posts the journal entry and marks the estimate invoiced
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      201 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id}/convert [post]
func (h *EstimateHandler) ConvertToInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimate ID format")
		return
	}

	invoice, err := h.estimateService.ConvertToInvoice(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Delete godoc
// @ID           deleteEstimate
// @Summary      Delete a draft estimate
// @Tags         estimates
// @Produce      json
// @Param        id path string true "Estimate ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/estimates/{id} [delete]
func (h *EstimateHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimate ID format")
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), tenantID, estimateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs a single-document lifecycle operation shared by the
// send/accept/decline/expire endpoints.
func (h *EstimateHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, estimateID uuid.UUID) (*billingapp.EstimateResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimate ID format")
		return
	}

	estimate, err := fn(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, estimate)
}
