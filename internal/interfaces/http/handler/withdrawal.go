package handler

import (
	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
)

// WithdrawalHandler handles FEFO stock withdrawal API endpoints
type WithdrawalHandler struct {
	BaseHandler
	withdrawalService *stockapp.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService *stockapp.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Withdraw removes stock for a reagent, picking batches first-expired-first-out
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	var req stockapp.WithdrawStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.withdrawalService.Withdraw(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
