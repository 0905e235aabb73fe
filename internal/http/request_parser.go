// Package http provides HTTP server and handler implementations.
//
// This file implements decoding and validation of API request bodies and
// list query parameters.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const maxBodyBytes = 1 << 20

var (
	// ErrInvalidBody is returned for bodies that are not a single JSON object.
	ErrInvalidBody = errors.New("invalid JSON body")

	// ErrInvalidQuery is returned for malformed list query parameters.
	ErrInvalidQuery = errors.New("invalid query parameter")
)

// Amount accepts a JSON number or a decimal string ("12,50" included).
// Malformed input is remembered rather than failing the whole decode so it
// can be reported as a validation error.
type Amount struct {
	Value   float64
	Invalid bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = Amount{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = Amount{Invalid: true}
			return nil
		}
		v, err := core.ParseAmount(s)
		*a = Amount{Value: v, Invalid: err != nil}
	default:
		v, err := strconv.ParseFloat(string(b), 64)
		*a = Amount{Value: v, Invalid: err != nil}
	}
	return nil
}

type transactionPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Amount      Amount `json:"amount"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"max=100"`
	Month       string `json:"month" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

func (p transactionPayload) toCore() core.Transaction {
	return core.Transaction{
		ID:          strings.TrimSpace(p.ID),
		Title:       p.Title,
		Amount:      p.Amount.Value,
		Type:        core.TxType(p.Type),
		Category:    p.Category,
		Month:       p.Month,
		Description: p.Description,
	}
}

type budgetPayload struct {
	ID          string `json:"id"`
	Category    string `json:"category" validate:"required,max=100"`
	Amount      Amount `json:"amount"`
	Month       string `json:"month" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

func (p budgetPayload) toCore() core.Budget {
	return core.Budget{
		ID:          strings.TrimSpace(p.ID),
		Category:    p.Category,
		Amount:      p.Amount.Value,
		Month:       p.Month,
		Description: p.Description,
	}
}

type idPayload struct {
	ID string `json:"id"`
}

// ValidationError carries a client-facing message for 422 responses.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestParser decodes and validates request bodies.
type RequestParser struct {
	validate *validator.Validate
}

// NewRequestParser reports validation failures by JSON field name.
func NewRequestParser() *RequestParser {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestParser{validate: v}
}

// decodeJSON reads a single JSON object from the body, capped at maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON object", ErrInvalidBody)
	}
	return nil
}

// ParseTransaction decodes a transaction body. The id is only meaningful for PUT.
func (p *RequestParser) ParseTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, error) {
	var payload transactionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		return core.Transaction{}, err
	}
	payload.Title = sanitizeInput(payload.Title)
	payload.Description = sanitizeInput(payload.Description)
	payload.Category = sanitizeInput(payload.Category)
	payload.Month = sanitizeInput(payload.Month)
	payload.Type = strings.ToLower(sanitizeInput(payload.Type))

	if err := p.check(payload, payload.Amount); err != nil {
		return core.Transaction{}, err
	}
	return payload.toCore(), nil
}

// ParseBudget decodes a budget body.
func (p *RequestParser) ParseBudget(w http.ResponseWriter, r *http.Request) (core.Budget, error) {
	var payload budgetPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		return core.Budget{}, err
	}
	payload.Category = sanitizeInput(payload.Category)
	payload.Description = sanitizeInput(payload.Description)
	payload.Month = sanitizeInput(payload.Month)

	if err := p.check(payload, payload.Amount); err != nil {
		return core.Budget{}, err
	}
	return payload.toCore(), nil
}

// ParseID decodes the {"id": ...} body of DELETE requests.
func (p *RequestParser) ParseID(w http.ResponseWriter, r *http.Request) (string, error) {
	var payload idPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.ID), nil
}

func (p *RequestParser) check(payload any, amount Amount) error {
	if amount.Invalid {
		return &ValidationError{Message: "amount must be a number"}
	}
	if err := p.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Message: describeFieldError(verrs[0])}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ParseListFilter reads the transaction list query: q, category, type,
// month, sort (date|amount) and order (asc|desc).
func ParseListFilter(query url.Values) (ledger.Filter, error) {
	f := ledger.Filter{
		Search:    strings.TrimSpace(query.Get("q")),
		Category:  strings.TrimSpace(query.Get("category")),
		SortBy:    ledger.ParseSortField(query.Get("sort")),
		Ascending: strings.EqualFold(strings.TrimSpace(query.Get("order")), "asc"),
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" && !strings.EqualFold(v, "all") {
		t, err := core.ParseTxType(v)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("%w: type %q", ErrInvalidQuery, v)
		}
		f.Type = t
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := core.ParseMonth(v)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("%w: month %q", ErrInvalidQuery, v)
		}
		f.Month = m
	}
	if strings.EqualFold(f.Category, "all") {
		f.Category = ""
	}
	return f, nil
}

// sanitizeInput drops control characters other than tab and newlines and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
