package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "procura/internal/core/context"
	"procura/internal/core/entity"
	"procura/internal/domain"
)

type doc struct {
	entity.Document
}

func TestEnrichCreatedBy(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-7"})
	d := &doc{Document: entity.NewDocument("riyadh-01")}

	EnrichCreatedBy(ctx, d.AuditFields())
	assert.Equal(t, "u-7", d.CreatedBy)
	assert.Equal(t, "u-7", d.UpdatedBy)

	other := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-8"})
	EnrichCreatedBy(other, d.AuditFields())
	assert.Equal(t, "u-7", d.CreatedBy, "author is kept")
	assert.Equal(t, "u-8", d.UpdatedBy)
}

func TestEnrich_NoUserIsNoop(t *testing.T) {
	d := &doc{Document: entity.NewDocument("riyadh-01")}
	EnrichCreatedBy(context.Background(), d.AuditFields())
	EnrichUpdatedBy(context.Background(), d.AuditFields())
	assert.Empty(t, d.CreatedBy)
	assert.Empty(t, d.UpdatedBy)
}

func TestCreatedByHook(t *testing.T) {
	hooks := domain.NewHookRegistry[*doc]()
	hooks.OnBeforeCalculate(CreatedByHook[*doc]())

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u-9"})
	d := &doc{Document: entity.NewDocument("riyadh-01")}
	require.NoError(t, hooks.Run(ctx, domain.BeforeCalculate, d))
	assert.Equal(t, "u-9", d.CreatedBy)
}
