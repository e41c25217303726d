package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

func echoScope(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		scope, err := tenancy.FromContext(r.Context())
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, map[string]string{"subject": id.SubjectID, "tenant": scope.TenantID()})
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthenticateMissingToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", 0)
	a := NewAuthenticator(tm, AuthenticatorConfig{LoginURL: "http://app/auth/HR/login"}, nil, nil)

	rec := httptest.NewRecorder()
	a.Authenticate(auth.HRCookie)(echoScope(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employee/all", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["gologin"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "http://app/auth/HR/login", body["loginURL"])
}

func TestAuthenticateValidCookieSetsScope(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", 0)
	a := NewAuthenticator(tm, AuthenticatorConfig{}, nil, nil)
	token, err := tm.Encode(auth.Identity{SubjectID: "hr-1", Role: domain.RoleHRAdmin, TenantID: "org-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: auth.HRCookie, Value: token})
	rec := httptest.NewRecorder()
	a.Authenticate(auth.HRCookie)(echoScope(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "hr-1", body["subject"])
	assert.Equal(t, "org-1", body["tenant"])
}

func TestAuthenticateTamperedCookieIsCleared(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", 0)
	a := NewAuthenticator(tm, AuthenticatorConfig{}, nil, nil)
	forged, err := auth.NewTokenManager("attacker", "", 0).
		Encode(auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: auth.EmployeeCookie, Value: forged})
	rec := httptest.NewRecorder()
	a.Authenticate(auth.EmployeeCookie)(echoScope(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.EmployeeCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.Equal(t, true, decode(t, rec)["gologin"])
}

func TestAuthenticateInvalidBearerLeavesCookiesAlone(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", 0)
	a := NewAuthenticator(tm, AuthenticatorConfig{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	a.Authenticate(auth.HRCookie)(echoScope(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthenticateQueryTokenNeedsOptIn(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", 0)
	token, _ := tm.Encode(auth.Identity{SubjectID: "emp-1", Role: domain.RoleEmployee, TenantID: "org-1"})

	off := NewAuthenticator(tm, AuthenticatorConfig{}, nil, nil)
	rec := httptest.NewRecorder()
	off.Authenticate(auth.EmployeeCookie)(echoScope(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	on := NewAuthenticator(tm, AuthenticatorConfig{AllowQueryToken: true}, nil, nil)
	rec = httptest.NewRecorder()
	on.Authenticate(auth.EmployeeCookie)(echoScope(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x?token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	authz := security.NewAuthorizationService(nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireRoles(authz, nil, domain.RoleHRAdmin)(ok)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{SubjectID: "e", Role: domain.RoleEmployee, TenantID: "o"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ctx = auth.WithIdentity(context.Background(), auth.Identity{SubjectID: "h", Role: domain.RoleHRAdmin, TenantID: "o"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitPerTenant(t *testing.T) {
	lim := ratelimit.NewMemory()
	defer lim.Stop()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(lim, 1, time.Minute, nil)(ok)

	scope, _ := tenancy.ForTenant("org-1")
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(tenancy.WithScope(context.Background(), scope))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", ClientIP(req))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
