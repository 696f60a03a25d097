package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeRequiresElevation = "ERR_REQUIRES_ELEVATION"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations map to 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeRequiresElevation: http.StatusForbidden,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"INVALID_STATE":            ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"INVALID_QUANTITY":         ErrCodeValidation,
	"INVALID_ACTION":           ErrCodeValidation,
	"INVALID_REAGENT":          ErrCodeValidation,
	"INVALID_BATCH_NUMBER":     ErrCodeValidation,
	"INVALID_NAME":             ErrCodeValidation,
	"INVALID_CATALOG_NUMBER":   ErrCodeValidation,
	"INVALID_TRANSACTION_TYPE": ErrCodeValidation,
	"VALIDATION_ERROR":         ErrCodeValidation,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
