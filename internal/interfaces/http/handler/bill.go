package handler

import (
	billingapp "github.com/finbooks/backend/internal/application/billing"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillHandler handles purchase bill API endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{
		billService: billService,
	}
}

// Create godoc
// @ID           createBill
// @Summary      Create a draft purchase bill
// @Description  Create a new draft bill; the supplier's state drives the tax split direction
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateBillRequest true "Bill creation request"
// @Success      201 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bill)
}

// GetByID godoc
// @ID           getBillById
// @Summary      Get bill by ID
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), tenantID, billID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// List godoc
// @ID           listBills
// @Summary      List bills
// @Description  Paginated bill list with optional status filter and search
// @Tags         bills
// @Produce      json
// @Param        status query string false "Bill status" Enums(DRAFT, SUBMITTED, PARTIALLY_PAID, PAID, VOID)
// @Param        search query string false "Search term (bill number, supplier name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(issue_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills [get]
func (h *BillHandler) List(c *gin.Context) {
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

	var status *billing.BillStatus
	if raw := c.Query("status"); raw != "" {
		s := billing.BillStatus(raw)
		if !s.IsValid() {
			h.BadRequest(c, "Invalid bill status")
			return
		}
		status = &s
	}

	result, err := h.billService.List(c.Request.Context(), tenantID, status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateBill
// @Summary      Update a draft bill
// @Description  Replace the line set and header fields of a draft bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body billing.UpdateBillRequest true "Bill update request"
// @Success      200 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), tenantID, billID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Submit godoc
// @ID           submitBill
// @Summary      Submit a draft bill
// @Description  Assigns the bill number, moves the bill to SUBMITTED and posts it to the ledger
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id}/submit [post]
func (h *BillHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.Submit(c.Request.Context(), tenantID, billID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// ApplyPayment godoc
// @ID           applyBillPayment
// @Summary      Record a payment against a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body billing.ApplyPaymentRequest true "Payment request"
// @Success      200 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id}/payments [post]
func (h *BillHandler) ApplyPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.ApplyPayment(c.Request.Context(), tenantID, billID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Void godoc
// @ID           voidBill
// @Summary      Void a bill
// @Description  Voids the bill and posts a reversing journal entry if it was submitted
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body billing.VoidRequest true "Void reason"
// @Success      200 {object} APIResponse[billing.BillResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id}/void [post]
func (h *BillHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Void(c.Request.Context(), tenantID, billID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete godoc
// @ID           deleteBill
// @Summary      Delete a draft bill
// @Description  Only drafts can be deleted; submitted bills must be voided instead
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), tenantID, billID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// OutstandingBySupplier godoc
// @ID           getSupplierOutstanding
// @Summary      Get outstanding payable for a supplier
// @Description  Sums the unpaid balances of the supplier's open bills
// @Tags         bills
// @Produce      json
// @Param        supplierId path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[billing.OutstandingSummary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/bills/outstanding/{supplierId} [get]
func (h *BillHandler) OutstandingBySupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("supplierId"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	summary, err := h.billService.OutstandingBySupplier(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
