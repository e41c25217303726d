// Package tenancy carries the organization a request is allowed to touch.
//
// A Scope is the only way to reach tenant data in the store: repositories are
// obtained from a Scope and append its tenant id to every statement they run.
// Handlers get their Scope from the request context, where the authentication
// middleware placed it after a token was verified.
package tenancy

import (
	"context"
	"errors"
)

// ErrNoScope is returned when a tenant operation is attempted without a scope.
var ErrNoScope = errors.New("tenant scope missing")

// Scope identifies a single organization. The zero value is invalid.
type Scope struct {
	tenantID string
}

// ForTenant builds a scope for system actors that act on behalf of an
// organization without a request: signup of a brand new organization and
// background workers iterating organizations.
func ForTenant(tenantID string) (Scope, error) {
	if tenantID == "" {
		return Scope{}, ErrNoScope
	}
	return Scope{tenantID: tenantID}, nil
}

// TenantID returns the organization id the scope is bound to.
func (s Scope) TenantID() string {
	return s.tenantID
}

// Valid reports whether the scope is bound to an organization.
func (s Scope) Valid() bool {
	return s.tenantID != ""
}

type scopeKey struct{}

// WithScope stores the scope in ctx.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the scope placed in ctx by the authentication middleware.
func FromContext(ctx context.Context) (Scope, error) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	if !ok || !s.Valid() {
		return Scope{}, ErrNoScope
	}
	return s, nil
}
