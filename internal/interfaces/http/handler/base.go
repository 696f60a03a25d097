package handler

import (
	"errors"
	"net/http"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/bloodbank/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getActor returns the authenticated actor for the request. The zero
// Actor is returned for unauthenticated requests; domain validation
// rejects it with a MISSING_USER reason.
func getActor(c *gin.Context) stock.Actor {
	return middleware.GetActor(c)
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// buildFilter converts a list request into a repository filter
func buildFilter(req dto.ListRequest) shared.Filter {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses.
// Validation errors map by reason, operation errors surface the failed
// step, and domain errors map by code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		code, status := validationStatus(validationErr.Reason)
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, validationErr.Message, requestID))
		return
	}

	var opErr *shared.OperationError
	if errors.As(err, &opErr) {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, opErr.Error(), requestID)
		resp.Data = gin.H{
			"failed_step":     opErr.Step,
			"completed_steps": opErr.CompletedSteps,
		}
		status := http.StatusInternalServerError
		if errors.Is(opErr.Cause, shared.ErrConcurrencyConflict) {
			status = http.StatusConflict
			resp.Error.Code = dto.ErrCodeConcurrencyConflict
		}
		c.JSON(status, resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

// validationStatus maps a validation failure reason to a wire code and status
func validationStatus(reason string) (string, int) {
	switch reason {
	case shared.ReasonBatchNotFound:
		return dto.ErrCodeNotFound, http.StatusNotFound
	case shared.ReasonMissingUser:
		return dto.ErrCodeUnauthorized, http.StatusUnauthorized
	case shared.ReasonRequiresElevation:
		return dto.ErrCodeRequiresElevation, http.StatusForbidden
	default:
		return dto.ErrCodeValidation, http.StatusBadRequest
	}
}
