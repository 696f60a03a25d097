package handler

import (
	catalogapp "github.com/bloodbank/backend/internal/application/catalog"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReagentHandler handles reagent catalog API endpoints
type ReagentHandler struct {
	BaseHandler
	reagentService *catalogapp.ReagentService
}

// NewReagentHandler creates a new ReagentHandler
func NewReagentHandler(reagentService *catalogapp.ReagentService) *ReagentHandler {
	return &ReagentHandler{reagentService: reagentService}
}

// Create creates a reagent catalog entry
func (h *ReagentHandler) Create(c *gin.Context) {
	var req catalogapp.CreateReagentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.reagentService.CreateReagent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update patches reagent master data
func (h *ReagentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid reagent ID")
		return
	}

	var req catalogapp.UpdateReagentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.reagentService.UpdateReagent(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns one reagent
func (h *ReagentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid reagent ID")
		return
	}

	resp, err := h.reagentService.GetReagent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns reagents matching the query
func (h *ReagentHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := buildFilter(req)
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	page, err := h.reagentService.ListReagents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListLowStock returns reagents below their stock threshold
func (h *ReagentHandler) ListLowStock(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	items, err := h.reagentService.ListLowStock(c.Request.Context(), buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// RecomputeAggregate rebuilds the cached stock projection for a reagent
func (h *ReagentHandler) RecomputeAggregate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid reagent ID")
		return
	}

	resp, err := h.reagentService.RecomputeAggregate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
