package handler

import (
	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles ledger posting settings API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *ledgerapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *ledgerapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get godoc
// @ID           getLedgerSettings
// @Summary      Get the tenant's posting settings
// @Description  Returns the role-to-account mapping used when posting documents
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[ledger.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// Update godoc
// @ID           updateLedgerSettings
// @Summary      Update the tenant's posting settings
// @Description  Maps posting roles to chart accounts; referenced accounts must exist and be active
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body ledger.UpdateSettingsRequest true "Settings update request"
// @Success      200 {object} APIResponse[ledger.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}
