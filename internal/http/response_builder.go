// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for the JSON envelope every API
// endpoint answers with: {"success": true, "data": ...} on success and
// {"success": false, "message": ...} on failure.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building envelope responses.
type JSONResponseBuilder struct {
	statusCode int
	body       envelope
	headers    map[string]string
}

// NewJSONResponse creates a new successful response builder with 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		body:       envelope{Success: true},
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Data(data any) *JSONResponseBuilder {
	b.body.Data = data
	return b
}

// Fail marks the envelope unsuccessful and sets its message.
func (b *JSONResponseBuilder) Fail(message string) *JSONResponseBuilder {
	b.body.Success = false
	b.body.Message = message
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode response", "error", err, "status", b.statusCode)
	}
}

// SuccessResponse wraps data in a successful envelope.
func SuccessResponse(statusCode int, data any) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Data(data)
}

// ErrorResponse creates a failed envelope with the given message.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Fail(message)
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError never echoes the underlying error to the client.
func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal server error")
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").
		Header("Retry-After", "60")
}

func ServiceUnavailableError(data any) *JSONResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, "not ready").Data(data)
}
