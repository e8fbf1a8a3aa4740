// Package audit fills document audit fields from the request user.
package audit

import (
	"context"

	appctx "procura/internal/core/context"
	"procura/internal/core/entity"
	"procura/internal/domain"
)

// Stamped is implemented by documents embedding entity.BaseDocument.
type Stamped interface {
	AuditFields() *entity.BaseDocument
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// If no user is in context, this is a no-op.
func EnrichCreatedBy(ctx context.Context, doc *entity.BaseDocument) {
	userID := appctx.GetUserID(ctx)
	if userID == "" || doc == nil {
		return
	}
	if doc.CreatedBy == "" {
		doc.CreatedBy = userID
	}
	doc.UpdatedBy = userID
}

// EnrichUpdatedBy sets only UpdatedBy from the context user.
func EnrichUpdatedBy(ctx context.Context, doc *entity.BaseDocument) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && doc != nil {
		doc.UpdatedBy = userID
	}
}

// CreatedByHook returns a hook that stamps the document author.
func CreatedByHook[T Stamped]() domain.Hook[T] {
	return func(ctx context.Context, doc T) error {
		EnrichCreatedBy(ctx, doc.AuditFields())
		return nil
	}
}

// UpdatedByHook returns a hook that stamps the last editor.
func UpdatedByHook[T Stamped]() domain.Hook[T] {
	return func(ctx context.Context, doc T) error {
		EnrichUpdatedBy(ctx, doc.AuditFields())
		return nil
	}
}
