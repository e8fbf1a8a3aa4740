package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, LocaleEnglish, ParseAcceptLanguage("en-US,en;q=0.9,ar;q=0.8"))
	assert.Equal(t, LocaleArabic, ParseAcceptLanguage("ar-SA"))
	assert.Equal(t, LocaleArabic, ParseAcceptLanguage(""))
	assert.Equal(t, LocaleArabic, ParseAcceptLanguage("fr"))
}

func TestLocaleRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, LocaleArabic, GetLocale(ctx))
	assert.Equal(t, LocaleEnglish, GetLocale(WithLocale(ctx, LocaleEnglish)))
}

func TestHasRole(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{UserID: "u1", Roles: []string{"buyer", "admin"}})
	assert.True(t, HasRole(ctx, "admin"))
	assert.False(t, HasRole(ctx, "auditor"))
	assert.False(t, HasRole(context.Background(), "admin"))
	assert.Equal(t, "u1", GetUserID(ctx))
}

func TestTraceAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTrace(ctx, &TraceContext{TraceID: "t-1", SpanID: "s-1", RequestID: "r-1"})
	assert.Equal(t, "r-1", GetRequestID(ctx))
	assert.Equal(t, "t-1", GetTraceID(ctx))
}
