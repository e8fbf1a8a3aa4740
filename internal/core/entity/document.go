package entity

import (
	"context"
	"time"

	"procura/internal/core/apperror"
)

// Document is the base type for branch business documents:
// purchase orders, inventory counts and custody closures.
type Document struct {
	BaseDocument

	// Number is the user-facing document number
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// BranchID is the owning branch
	BranchID string `db:"branch_id" json:"branchId"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document dated now.
func NewDocument(branchID string) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		BranchID:     branchID,
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.BranchID == "" {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// IsBackdated checks if document date is before today (UTC).
func (d *Document) IsBackdated() bool {
	return d.Date.Before(time.Now().UTC().Truncate(24 * time.Hour))
}

// Status is a document lifecycle state.
type Status string

// Transition moves *current to next if next is listed for it in allowed.
// It returns an INVALID_STATUS business-rule error otherwise.
func Transition(current *Status, next Status, allowed map[Status][]Status) error {
	for _, s := range allowed[*current] {
		if s == next {
			*current = next
			return nil
		}
	}
	return apperror.NewBusinessRule(apperror.CodeInvalidStatus, "status transition not allowed").
		WithDetail("from", string(*current)).
		WithDetail("to", string(next))
}
