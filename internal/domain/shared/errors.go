package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// ValidationError is a client-correctable error raised before any write
// takes place. The Reason code identifies the first check that failed;
// checks are never aggregated.
type ValidationError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// Validation failure reasons
const (
	ReasonBatchNotFound     = "BATCH_NOT_FOUND"
	ReasonInvalidAction     = "INVALID_ACTION"
	ReasonInvalidQuantity   = "INVALID_QUANTITY"
	ReasonQuantityExceeds   = "QUANTITY_EXCEEDS_AVAILABLE"
	ReasonMissingUser       = "MISSING_USER"
	ReasonRequiresElevation = "REQUIRES_ELEVATED_ROLE"
)

// OperationError reports a failure partway through a multi-step write
// sequence. Step names which step failed; CompletedSteps lists the
// steps that already succeeded and were not rolled back, so the caller
// knows exactly how far the operation progressed.
type OperationError struct {
	Step           string   `json:"step"`
	CompletedSteps []string `json:"completed_steps"`
	Cause          error    `json:"-"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return fmt.Sprintf("operation failed at step %q: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewOperationError creates a new operation error
func NewOperationError(step string, completed []string, cause error) *OperationError {
	return &OperationError{Step: step, CompletedSteps: completed, Cause: cause}
}

// AggregationWarning signals that a post-mutation aggregate recompute
// failed. The mutation itself succeeded; reagent-level summaries are
// stale until the next recompute. Never treated as fatal.
type AggregationWarning struct {
	ReagentID string `json:"reagent_id"`
	Cause     error  `json:"-"`
}

// Error implements the error interface
func (w *AggregationWarning) Error() string {
	return fmt.Sprintf("aggregate recompute failed for reagent %s: %v", w.ReagentID, w.Cause)
}

// Unwrap returns the underlying cause
func (w *AggregationWarning) Unwrap() error {
	return w.Cause
}

// NewAggregationWarning creates a new aggregation warning
func NewAggregationWarning(reagentID string, cause error) *AggregationWarning {
	return &AggregationWarning{ReagentID: reagentID, Cause: cause}
}
