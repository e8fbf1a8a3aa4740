// Package entity holds the document skeleton shared by branch documents.
package entity

import (
	"context"
	"time"

	"procura/internal/core/id"
)

// Validatable is implemented by documents that check their own invariants
// without catalog or database access.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseDocument carries identity, revision and audit stamps.
// Revision starts at 1 and grows with every lifecycle change.
type BaseDocument struct {
	ID       id.ID `db:"id" json:"id"`
	Revision int   `db:"revision" json:"revision"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument stamps a fresh ID and creation time.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		ID:        id.New(),
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Bump records a lifecycle change.
func (b *BaseDocument) Bump() {
	b.Revision++
	b.UpdatedAt = time.Now().UTC()
}

// AuditFields exposes the stamps of any document embedding BaseDocument.
func (b *BaseDocument) AuditFields() *BaseDocument {
	return b
}
