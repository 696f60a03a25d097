package handler

import (
	catalogapp "github.com/bloodbank/backend/internal/application/catalog"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *catalogapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *catalogapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create creates a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req catalogapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.supplierService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one supplier with its contacts
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	resp, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns suppliers matching the query
func (h *SupplierHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	activeOnly := c.Query("active") == "true"

	page, err := h.supplierService.ListSuppliers(c.Request.Context(), buildFilter(req), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddContact adds a contact person to a supplier
func (h *SupplierHandler) AddContact(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req catalogapp.SupplierContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.supplierService.AddContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a supplier as no longer in use
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.supplierService.DeactivateSupplier(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
