// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/costing"
)

// --- List Response ---

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items      []T    `json:"items"`
	TotalCount int    `json:"totalCount"`
	Generation uint64 `json:"generation,omitempty"`
}

// NewListResponse creates a list response.
func NewListResponse[T any](items []T, generation uint64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalCount: len(items), Generation: generation}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorFrom converts an error to its response shape.
func ErrorFrom(err error) *ErrorResponse {
	if appErr, ok := apperror.AsAppError(err); ok {
		return &ErrorResponse{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	}
	return &ErrorResponse{Code: apperror.CodeInternal, Message: err.Error()}
}

// --- Numeric input ---

// NumericIssues collects request fields whose numbers were coerced to zero.
type NumericIssues struct {
	fields []string
}

// Value returns the coerced value of v and records field when v was malformed.
func (n *NumericIssues) Value(field string, v types.LenientDecimal) decimal.Decimal {
	if v.Invalid {
		n.fields = append(n.fields, field)
	}
	return v.Decimal()
}

// Warnings returns a single INVALID_NUMERIC_INPUT warning naming every
// coerced field, or nil.
func (n *NumericIssues) Warnings() []costing.Warning {
	if len(n.fields) == 0 {
		return nil
	}
	return []costing.Warning{{
		Code:    apperror.CodeInvalidNumericInput,
		Message: "non-numeric values were treated as 0",
		Details: map[string]any{"fields": n.fields},
	}}
}

// --- IDs ---

func parseID(field, raw string) (id.ID, error) {
	v, err := id.ParseOptional(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return v, nil
}

func parseRequiredID(field, raw string) (id.ID, error) {
	v, err := parseID(field, raw)
	if err != nil {
		return v, err
	}
	if id.IsNil(v) {
		return v, apperror.NewValidation(field + " is required").WithDetail("field", field)
	}
	return v, nil
}

func parseOptionalIDPtr(field string, raw *string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := parseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return id.Ptr(v), nil
}

func lineField(collection string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", collection, i, field)
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

func optionalID(p *id.ID) *string {
	if p == nil || id.IsNil(*p) {
		return nil
	}
	s := p.String()
	return &s
}

func warningsOrEmpty(ws []costing.Warning) []costing.Warning {
	if ws == nil {
		return []costing.Warning{}
	}
	return ws
}
