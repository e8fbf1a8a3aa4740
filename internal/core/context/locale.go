package context

import (
	"context"
	"strings"
)

// Locale selects which of the bilingual catalog names is shown.
type Locale string

const (
	LocaleArabic  Locale = "ar"
	LocaleEnglish Locale = "en"
)

type localeKey struct{}

// WithLocale adds the request locale to context.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, localeKey{}, l)
}

// GetLocale returns the request locale, Arabic by default.
func GetLocale(ctx context.Context) Locale {
	if v, ok := ctx.Value(localeKey{}).(Locale); ok {
		return v
	}
	return LocaleArabic
}

// ParseAcceptLanguage picks ar or en from an Accept-Language header value.
// Only the first listed language is considered.
func ParseAcceptLanguage(header string) Locale {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.ToLower(strings.TrimSpace(first))
	if strings.HasPrefix(first, "en") {
		return LocaleEnglish
	}
	return LocaleArabic
}
