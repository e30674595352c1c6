package handler

import (
	"time"

	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JournalHandler handles journal entry API endpoints. The journal is
// append-only; every entry originates from a document posting.
type JournalHandler struct {
	BaseHandler
	journalService *ledgerapp.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *ledgerapp.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// GetByID godoc
// @ID           getJournalEntryById
// @Summary      Get journal entry by ID
// @Tags         journal
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.JournalEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal/{id} [get]
func (h *JournalHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	entry, err := h.journalService.GetByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @ID           listJournalEntries
// @Summary      List journal entries
// @Description  Paginated journal list, optionally constrained to an entry date range
// @Tags         journal
// @Produce      json
// @Param        from query string false "Start of entry date range (RFC 3339)"
// @Param        to query string false "End of entry date range (RFC 3339)"
// @Param        search query string false "Search term (narration, source number)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(entry_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]ledger.JournalEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal [get]
func (h *JournalHandler) List(c *gin.Context) {
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

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		h.BadRequest(c, "Invalid 'from' date; expected RFC 3339")
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		h.BadRequest(c, "Invalid 'to' date; expected RFC 3339")
		return
	}

	result, err := h.journalService.List(c.Request.Context(), tenantID, from, to, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// FindBySource godoc
// @ID           findJournalEntriesBySource
// @Summary      Find journal entries for a source document
// @Description  Returns the posting and any reversal for the given document, oldest first
// @Tags         journal
// @Produce      json
// @Param        sourceType path string true "Source document type" Enums(SALES_INVOICE, PURCHASE_BILL)
// @Param        sourceId path string true "Source document ID" format(uuid)
// @Success      200 {object} APIResponse[[]ledger.JournalEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal/source/{sourceType}/{sourceId} [get]
func (h *JournalHandler) FindBySource(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sourceType := c.Param("sourceType")
	if sourceType == "" {
		h.BadRequest(c, "Source type is required")
		return
	}

	sourceID, err := uuid.Parse(c.Param("sourceId"))
	if err != nil {
		h.BadRequest(c, "Invalid source ID format")
		return
	}

	entries, err := h.journalService.FindBySource(c.Request.Context(), tenantID, sourceType, sourceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// CheckTrialBalance godoc
// @ID           checkTrialBalance
// @Summary      Run the trial balance check
// @Description  Sums all journal debits and credits for the tenant and reports whether they match
// @Tags         journal
// @Produce      json
// @Success      200 {object} APIResponse[ledger.TrialBalanceResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/trial-balance [get]
func (h *JournalHandler) CheckTrialBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.journalService.CheckTrialBalance(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// parseTimeQuery parses an optional RFC 3339 query parameter
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
