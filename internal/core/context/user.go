package context

import (
	"context"
	"slices"
)

// UserContext is the caller identified by a bearer token.
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
	// BranchID is set for users bound to a single branch.
	BranchID string
}

type userContextKey struct{}

// WithUser stores the caller in ctx.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns the caller, or nil for anonymous requests.
func GetUser(ctx context.Context) *UserContext {
	u, _ := ctx.Value(userContextKey{}).(*UserContext)
	return u
}

// GetUserID returns the caller's ID or "".
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole reports whether the caller holds role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && slices.Contains(u.Roles, role)
}
