package handler

import (
	"time"

	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles read access to the stock transaction ledger
type LedgerHandler struct {
	BaseHandler
	ledgerService *stockapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *stockapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// ListByBatch returns the ledger entries for the batch in the path
func (h *LedgerHandler) ListByBatch(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.ledgerService.ListByBatch(c.Request.Context(), id, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// List returns ledger entries filtered by reagent or by date range.
// Accepts reagent_id, or start and end as YYYY-MM-DD dates.
func (h *LedgerHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if raw := c.Query("reagent_id"); raw != "" {
		reagentID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid reagent_id")
			return
		}
		entries, err := h.ledgerService.ListByReagent(c.Request.Context(), reagentID, buildFilter(req))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, entries)
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		h.BadRequest(c, "Either reagent_id or a start/end date range is required")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		h.BadRequest(c, "Either reagent_id or a start/end date range is required")
		return
	}

	entries, err := h.ledgerService.ListByDateRange(c.Request.Context(), start, end.AddDate(0, 0, 1), buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
