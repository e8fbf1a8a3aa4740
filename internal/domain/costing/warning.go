// Package costing derives the cost of an item in an arbitrary unit by walking
// the unit conversion graph, and prices document lines against an immutable
// catalog snapshot.
package costing

import (
	"procura/internal/core/apperror"
)

// Warning is a non-fatal diagnostic attached to a resolution.
// Codes are the apperror conversion codes.
type Warning struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func warningFrom(err error) Warning {
	if appErr, ok := apperror.AsAppError(err); ok {
		return Warning{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	}
	return Warning{Code: apperror.CodeInternal, Message: err.Error()}
}

// HasWarning reports whether any warning carries code.
func HasWarning(ws []Warning, code string) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
