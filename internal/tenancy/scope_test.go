package tenancy

import (
	"context"
	"errors"
	"testing"
)

func TestForTenantRejectsEmpty(t *testing.T) {
	if _, err := ForTenant(""); !errors.Is(err, ErrNoScope) {
		t.Fatalf("expected ErrNoScope, got %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	s, err := ForTenant("org-1")
	if err != nil {
		t.Fatalf("ForTenant: %v", err)
	}
	got, err := FromContext(WithScope(context.Background(), s))
	if err != nil {
		t.Fatalf("FromContext: %v", err)
	}
	if got.TenantID() != "org-1" {
		t.Fatalf("expected org-1, got %q", got.TenantID())
	}
}

func TestFromContextWithoutScope(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, ErrNoScope) {
		t.Fatalf("expected ErrNoScope, got %v", err)
	}
	if _, err := FromContext(WithScope(context.Background(), Scope{})); !errors.Is(err, ErrNoScope) {
		t.Fatalf("zero scope must not be accepted, got %v", err)
	}
}
