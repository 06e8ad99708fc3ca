package errors

import (
	"fmt"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates input validation failure
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a business rule violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainNotFoundError indicates a resource was not found
	DomainNotFoundError DomainErrorType = "NOT_FOUND"

	// DomainConflictError indicates a conflict with existing state
	DomainConflictError DomainErrorType = "CONFLICT"

	// DomainInfrastructureError indicates an infrastructure-level failure
	DomainInfrastructureError DomainErrorType = "INFRASTRUCTURE_ERROR"

	// DomainTimeoutError indicates operation timeout
	DomainTimeoutError DomainErrorType = "TIMEOUT_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type       DomainErrorType        `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		Retryable:  false,
		StatusCode: domainErrorTypeToStatusCode(errorType),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithRetryable sets whether the error is retryable
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	e.Retryable = retryable
	return e
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// domainErrorTypeToStatusCode maps error types to HTTP status codes
func domainErrorTypeToStatusCode(errorType DomainErrorType) int {
	switch errorType {
	case DomainValidationError:
		return 400 // Bad Request
	case DomainBusinessRuleError:
		return 422 // Unprocessable Entity
	case DomainNotFoundError:
		return 404 // Not Found
	case DomainConflictError:
		return 409 // Conflict
	case DomainTimeoutError:
		return 504 // Gateway Timeout
	case DomainInfrastructureError:
		return 500 // Internal Server Error
	default:
		return 500 // Internal Server Error
	}
}

// Domain error codes raised by the canvas and the validation service
const (
	CodeCanvasFull         = "CANVAS_FULL"
	CodePipelineTooLarge   = "PIPELINE_TOO_LARGE"
	CodeTemplateTooLong    = "TEMPLATE_TOO_LONG"
	CodeSelfConnection     = "SELF_CONNECTION"
	CodeUnknownNodeType    = "UNKNOWN_NODE_TYPE"
	CodeEventPublishFailed = "EVENT_PUBLISH_FAILED"
)

// NewCanvasFullError reports that a canvas limit was reached
func NewCanvasFullError(what string, limit int) *DomainError {
	return NewDomainError(
		DomainBusinessRuleError,
		CodeCanvasFull,
		fmt.Sprintf("Maximum number of %s on the canvas reached", what),
	).WithDetail("limit", limit)
}

// NewPipelineTooLargeError reports a submitted document over the service limits
func NewPipelineTooLargeError(what string, count, limit int) *DomainError {
	return NewDomainError(
		DomainBusinessRuleError,
		CodePipelineTooLarge,
		fmt.Sprintf("Pipeline has too many %s", what),
	).WithDetail("count", count).WithDetail("limit", limit)
}

// NewTemplateTooLongError reports template text over the configured length
func NewTemplateTooLongError(length, limit int) *DomainError {
	return NewDomainError(
		DomainValidationError,
		CodeTemplateTooLong,
		"Template text exceeds maximum length",
	).WithDetail("field", "text").WithDetail("actual_length", length).WithDetail("max_length", limit)
}

// NewSelfConnectionError reports a connection from a node to itself
func NewSelfConnectionError(nodeID string) *DomainError {
	return NewDomainError(
		DomainBusinessRuleError,
		CodeSelfConnection,
		"Cannot connect a node to itself",
	).WithDetail("node_id", nodeID)
}

// NewUnknownNodeTypeError reports a drop payload naming no known node type
func NewUnknownNodeTypeError(nodeType string) *DomainError {
	return NewDomainError(
		DomainValidationError,
		CodeUnknownNodeType,
		fmt.Sprintf("Unknown node type %q", nodeType),
	).WithDetail("field", "nodeType")
}

// NewEventPublishError reports an event bus failure
func NewEventPublishError(cause error) *DomainError {
	return NewDomainError(
		DomainInfrastructureError,
		CodeEventPublishFailed,
		"Failed to publish domain event",
	).WithRetryable(true).WithCause(cause)
}
