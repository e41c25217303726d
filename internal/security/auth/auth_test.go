package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/repository/memory"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "", 0)
	want := Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-1"}

	token, err := tm.Encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := tm.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if tm.TTL() != 7*24*time.Hour {
		t.Fatalf("default ttl = %v", tm.TTL())
	}
}

func TestDecodeExpired(t *testing.T) {
	tm := NewTokenManager("secret", "", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tm.Encode(Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tm.now = time.Now

	if _, err := tm.Decode(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestDecodeTampered(t *testing.T) {
	tm := NewTokenManager("secret", "", 0)
	token, _ := tm.Encode(Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-1"})

	parts := strings.Split(token, ".")
	forged := NewTokenManager("other-secret", "", 0)
	other, _ := forged.Encode(Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-2"})
	tampered := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	for name, tok := range map[string]string{
		"tampered payload": tampered,
		"wrong secret":     other,
		"garbage":          "not-a-token",
	} {
		if _, err := tm.Decode(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("%s: expected ErrTokenInvalid, got %v", name, err)
		}
	}
}

func TestEncodeRequiresClaims(t *testing.T) {
	tm := NewTokenManager("secret", "", 0)
	if _, err := tm.Encode(Identity{SubjectID: "x", Role: "Guest", TenantID: "org"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := tm.Encode(Identity{SubjectID: "x", Role: domain.RoleEmployee}); err == nil {
		t.Fatal("expected error for missing tenant")
	}
}

func TestCarrierPrecedence(t *testing.T) {
	c := Carrier{Cookies: []string{HRCookie}, AllowQuery: true}

	r := httptest.NewRequest(http.MethodGet, "/x?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: HRCookie, Value: "from-cookie"})
	if tok, src, name := c.Extract(r); tok != "from-cookie" || src != SourceCookie || name != HRCookie {
		t.Fatalf("cookie should win, got %q %v %q", tok, src, name)
	}

	r = httptest.NewRequest(http.MethodGet, "/x?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	if tok, src, _ := c.Extract(r); tok != "from-header" || src != SourceHeader {
		t.Fatalf("header should win over query, got %q %v", tok, src)
	}

	r = httptest.NewRequest(http.MethodGet, "/x?token=from-query", nil)
	if tok, src, _ := c.Extract(r); tok != "from-query" || src != SourceQuery {
		t.Fatalf("query fallback, got %q %v", tok, src)
	}

	c.AllowQuery = false
	if tok, src, _ := c.Extract(r); tok != "" || src != SourceNone {
		t.Fatalf("query carrier disabled, got %q %v", tok, src)
	}
}

func TestCarrierIgnoresOtherKindCookie(t *testing.T) {
	c := Carrier{Cookies: []string{EmployeeCookie}}
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.AddCookie(&http.Cookie{Name: HRCookie, Value: "hr"})
	if _, src, _ := c.Extract(r); src != SourceNone {
		t.Fatalf("expected no token, got source %v", src)
	}
}

func TestIssueSameTokenInCookieAndBody(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	org := &domain.Organization{Name: "Acme"}
	admin := &domain.Principal{Email: "hr@acme.test", Role: domain.RoleHRAdmin}
	if err := store.Credentials().RegisterOrganization(ctx, org, admin); err != nil {
		t.Fatalf("register: %v", err)
	}

	tm := NewTokenManager("secret", "", 0)
	s, err := NewIssuer(tm, store.Credentials(), true, nil).Issue(ctx, admin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if s.Cookie.Value != s.Token || s.Cookie.Name != HRCookie || !s.Cookie.HttpOnly || !s.Cookie.Secure {
		t.Fatalf("unexpected cookie %+v", s.Cookie)
	}
	if s.Cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) || s.Cookie.Path != "/" {
		t.Fatalf("unexpected cookie lifetime %+v", s.Cookie)
	}

	id, err := tm.Decode(s.Token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.TenantID != org.ID || id.Role != domain.RoleHRAdmin || id.SubjectID != admin.ID {
		t.Fatalf("claims do not match principal: %+v", id)
	}

	stored, err := store.Credentials().FindByID(ctx, domain.RoleHRAdmin, admin.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("Password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "Password123") || CheckPassword(hash, "password123") {
		t.Fatal("password check mismatch")
	}
	if err := ValidatePassword("short1"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := ValidatePassword("lettersonly"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	code, err := VerificationCode()
	if err != nil || len(code) != 6 {
		t.Fatalf("code %q err %v", code, err)
	}
	tok, err := ResetToken()
	if err != nil || len(tok) != 40 {
		t.Fatalf("token %q err %v", tok, err)
	}
}
