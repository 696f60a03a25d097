package handler

import (
	"strconv"

	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ExpiryHandler handles expiry dashboard API endpoints
type ExpiryHandler struct {
	BaseHandler
	expiryService      *stockapp.ExpiryService
	defaultHorizonDays int
}

// NewExpiryHandler creates a new ExpiryHandler. defaultHorizonDays is
// used when the request does not name a horizon; zero falls back to
// the service default.
func NewExpiryHandler(expiryService *stockapp.ExpiryService, defaultHorizonDays int) *ExpiryHandler {
	return &ExpiryHandler{
		expiryService:      expiryService,
		defaultHorizonDays: defaultHorizonDays,
	}
}

// Dashboard returns batches classified by time to expiry, with summary
// counts per urgency tier and action category
func (h *ExpiryHandler) Dashboard(c *gin.Context) {
	horizonDays := h.defaultHorizonDays
	if raw := c.Query("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "horizon_days must be a non-negative integer")
			return
		}
		horizonDays = parsed
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.expiryService.Dashboard(c.Request.Context(), horizonDays, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SweepResponse reports how many batches a sweep flagged as expired
type SweepResponse struct {
	Flagged int `json:"flagged"`
}

// Sweep flags batches whose expiry date has passed while stock remains
func (h *ExpiryHandler) Sweep(c *gin.Context) {
	flagged, err := h.expiryService.MarkExpiredBatches(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SweepResponse{Flagged: flagged})
}
