package services

import "strings"

// TicketValidationError lists every problem that blocks ticket issuance
type TicketValidationError struct {
	Problems []string
}

func (e *TicketValidationError) Error() string {
	return "ticket is not valid: " + strings.Join(e.Problems, " ")
}

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Service errors
var (
	ErrNoInterpreter = &ServiceError{Message: "no interpreter service configured"}
	ErrEmptyImage    = &ServiceError{Message: "image is empty"}
	ErrEmptyPrompt   = &ServiceError{Message: "prompt is empty"}
	ErrInvalidImage  = &ServiceError{Message: "image is not valid base64"}
)
