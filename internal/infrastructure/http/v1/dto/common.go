// Package dto provides request and response shapes for the HTTP API.
package dto

import (
	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
)

// Response is the uniform success envelope. Pagination appears on list
// responses only.
type Response struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Data       any           `json:"data,omitempty"`
	Pagination *listing.Meta `json:"pagination,omitempty"`
}

// OK wraps data in a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Paged wraps one result page and its pagination metadata.
func Paged(message string, data any, meta listing.Meta) Response {
	return Response{Success: true, Message: message, Data: data, Pagination: &meta}
}

// ErrorResponse is the uniform failure envelope. Only the error middleware
// builds it; handlers register errors and abort.
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Details map[string]any        `json:"details,omitempty"`
}
