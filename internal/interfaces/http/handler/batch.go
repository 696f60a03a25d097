package handler

import (
	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BatchHandler handles batch intake and lifecycle API endpoints
type BatchHandler struct {
	BaseHandler
	intakeService     *stockapp.IntakeService
	stockCountService *stockapp.StockCountService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(intakeService *stockapp.IntakeService, stockCountService *stockapp.StockCountService) *BatchHandler {
	return &BatchHandler{
		intakeService:     intakeService,
		stockCountService: stockCountService,
	}
}

// Register registers a delivered batch
func (h *BatchHandler) Register(c *gin.Context) {
	var req stockapp.RegisterBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.intakeService.RegisterBatch(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Activate releases an incoming batch for use
func (h *BatchHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.intakeService.ActivateBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns one batch
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.intakeService.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByReagent returns batches for the reagent given in the query
func (h *BatchHandler) ListByReagent(c *gin.Context) {
	reagentID, err := uuid.Parse(c.Query("reagent_id"))
	if err != nil {
		h.BadRequest(c, "A valid reagent_id query parameter is required")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	batches, err := h.intakeService.ListBatchesByReagent(c.Request.Context(), reagentID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// Reconcile corrects a batch quantity after a physical count
func (h *BatchHandler) Reconcile(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req stockapp.ReconcileBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.BatchID = id

	resp, err := h.stockCountService.ReconcileBatch(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
