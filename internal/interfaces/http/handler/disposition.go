package handler

import (
	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client-chosen retry key
const IdempotencyKeyHeader = "Idempotency-Key"

// DispositionHandler handles expiry disposition API endpoints
type DispositionHandler struct {
	BaseHandler
	dispositionService *stockapp.DispositionService
}

// NewDispositionHandler creates a new DispositionHandler
func NewDispositionHandler(dispositionService *stockapp.DispositionService) *DispositionHandler {
	return &DispositionHandler{dispositionService: dispositionService}
}

// Record documents a disposition action on a batch. The Idempotency-Key
// header takes precedence over the body field; retries with the same
// key return the original outcome.
func (h *DispositionHandler) Record(c *gin.Context) {
	var req stockapp.RecordDispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		req.IdempotencyKey = key
	}

	resp, err := h.dispositionService.RecordDisposition(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resp.Duplicate {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one disposition audit record
func (h *DispositionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	resp, err := h.dispositionService.GetRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns disposition records matching the query
func (h *DispositionHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := buildFilter(req)
	if reagentID := c.Query("reagent_id"); reagentID != "" {
		filter.Filters["reagent_id"] = reagentID
	}
	if batchID := c.Query("batch_id"); batchID != "" {
		filter.Filters["batch_id"] = batchID
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action_taken"] = action
	}

	page, err := h.dispositionService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
