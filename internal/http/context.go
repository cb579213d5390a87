package httpapi

import (
	"context"

	"tea-registry/internal/domain"
)

// Caller is the authenticated identity for one request, resolved once by the
// Access Gate and passed down through the request context — pages never
// re-fetch "who am I" themselves.
type Caller struct {
	IdentityID string
	// Staff is nil when the identity has no user_login row.
	Staff *domain.StaffAccount
	// IsAdmin is the privilege resolved fresh for this navigation. Advisory
	// for views; admin operations re-verify before executing.
	IsAdmin bool
}

// StaffID returns the caller's staff account id ("" without a row).
func (c *Caller) StaffID() string {
	if c == nil || c.Staff == nil {
		return ""
	}
	return c.Staff.ID
}

type callerKey struct{}

// WithCaller attaches the resolved caller to the context.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the request's caller, or nil when unauthenticated.
func CallerFrom(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerKey{}).(*Caller)
	return c
}
