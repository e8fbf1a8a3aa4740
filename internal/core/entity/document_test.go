package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
)

func TestDocument_Validate(t *testing.T) {
	ctx := context.Background()

	doc := NewDocument("riyadh-01")
	assert.NoError(t, doc.Validate(ctx))
	assert.Equal(t, 1, doc.Revision)

	doc.BranchID = ""
	assert.Error(t, doc.Validate(ctx))

	doc = NewDocument("riyadh-01")
	doc.Date = time.Time{}
	assert.Error(t, doc.Validate(ctx))
}

func TestDocument_Bump(t *testing.T) {
	doc := NewDocument("riyadh-01")
	before := doc.UpdatedAt

	doc.Bump()

	assert.Equal(t, 2, doc.Revision)
	assert.False(t, doc.UpdatedAt.Before(before))
	assert.Same(t, &doc.BaseDocument, doc.AuditFields())
}

func TestTransition(t *testing.T) {
	allowed := map[Status][]Status{
		"draft":     {"submitted", "cancelled"},
		"submitted": {"approved"},
	}

	s := Status("draft")
	require.NoError(t, Transition(&s, "submitted", allowed))
	assert.Equal(t, Status("submitted"), s)

	err := Transition(&s, "cancelled", allowed)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStatus))
	assert.Equal(t, Status("submitted"), s)
}
