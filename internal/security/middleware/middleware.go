package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/audit"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// Authenticator resolves the session token on a request into an identity
// and a tenant scope.
type Authenticator struct {
	tokens       *auth.TokenManager
	allowQuery   bool
	secureCookie bool
	loginURL     string
	audit        *audit.Logger
	logger       *slog.Logger
}

type AuthenticatorConfig struct {
	AllowQueryToken bool
	SecureCookie    bool
	// LoginURL is returned to HR clients so they can redirect.
	LoginURL string
}

func NewAuthenticator(tokens *auth.TokenManager, cfg AuthenticatorConfig, auditLog *audit.Logger, log *slog.Logger) *Authenticator {
	if log == nil {
		log = slog.Default()
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(log)
	}
	return &Authenticator{
		tokens:       tokens,
		allowQuery:   cfg.AllowQueryToken,
		secureCookie: cfg.SecureCookie,
		loginURL:     cfg.LoginURL,
		audit:        auditLog,
		logger:       log,
	}
}

// Failure describes why a request could not be authenticated.
type Failure struct {
	Err    error
	Source auth.Source
	Cookie string
}

func (f *Failure) Error() string { return f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }

// Identify extracts and decodes the session token. It does not touch the
// response.
func (a *Authenticator) Identify(r *http.Request, cookies ...string) (auth.Identity, error) {
	carrier := auth.Carrier{Cookies: cookies, AllowQuery: a.allowQuery}
	token, src, cookie := carrier.Extract(r)
	if src == auth.SourceNone {
		return auth.Identity{}, &Failure{Err: domain.ErrUnauthenticated}
	}
	id, err := a.tokens.Decode(token)
	if err != nil {
		return auth.Identity{}, &Failure{Err: err, Source: src, Cookie: cookie}
	}
	return id, nil
}

// Authenticate rejects requests without a valid session token and
// otherwise stores the identity and tenant scope in the request context.
// cookies names the session cookies accepted on the route, in lookup order.
// A route whose first cookie is the HR one answers 401 with the login URL.
func (a *Authenticator) Authenticate(cookies ...string) func(http.Handler) http.Handler {
	hrRoute := len(cookies) > 0 && cookies[0] == auth.HRCookie
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Identify(r, cookies...)
			if err != nil {
				a.reject(w, r, err, hrRoute)
				return
			}
			scope, err := tenancy.ForTenant(id.TenantID)
			if err != nil {
				a.reject(w, r, err, hrRoute)
				return
			}
			ctx := auth.WithIdentity(r.Context(), id)
			ctx = tenancy.WithScope(ctx, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error, hrRoute bool) {
	message := "Unauthorized access, please log in"
	var f *Failure
	if errors.As(err, &f) && f.Source != auth.SourceNone {
		if f.Source == auth.SourceCookie {
			auth.ClearCookie(w, f.Cookie, a.secureCookie)
		}
		message = "Invalid session, please log in again"
		if errors.Is(err, auth.ErrTokenExpired) {
			message = "Session expired, please log in again"
		}
		a.audit.LogDenied(r.Context(), "", "", "invalid session token from "+f.Source.String())
		a.logger.Info("rejected session token",
			slog.String("path", r.URL.Path),
			slog.String("source", f.Source.String()),
			slog.String("error", err.Error()),
		)
	}

	body := map[string]any{"success": false, "message": message, "gologin": true}
	if hrRoute && a.loginURL != "" {
		body["loginURL"] = a.loginURL
	}
	writeJSON(w, http.StatusUnauthorized, body)
}

// RequireRoles lets the request through when the authenticated role is in
// roles. It must run after Authenticate.
func RequireRoles(authz *security.AuthorizationService, auditLog *audit.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"success": false, "message": "Unauthorized access, please log in", "gologin": true,
				})
				return
			}
			if err := authz.Authorize(id.Role, roles...); err != nil {
				if auditLog != nil {
					auditLog.LogDenied(r.Context(), id.TenantID, id.SubjectID, r.Method+" "+r.URL.Path)
				}
				writeJSON(w, http.StatusForbidden, map[string]any{
					"success": false, "message": "You are not allowed to access this resource",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission is RequireRoles over every role holding perm.
func RequirePermission(authz *security.AuthorizationService, auditLog *audit.Logger, perm security.Permission) func(http.Handler) http.Handler {
	return RequireRoles(authz, auditLog, authz.RolesWith(perm)...)
}

// RateLimit throttles requests per tenant once authenticated, otherwise per
// client address.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + ClientIP(r)
			if scope, err := tenancy.FromContext(r.Context()); err == nil {
				key = "tenant:" + scope.TenantID()
			}
			decision, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				log.Warn("rate limiter unavailable", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			WriteRateLimitHeaders(w, decision)
			if !decision.Allowed {
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"success": false, "message": "Too many requests, please try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteRateLimitHeaders exposes a limiter decision to the client.
func WriteRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	}
	if !d.ResetAt.IsZero() {
		w.Header().Set("RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			retryAfter := int64(time.Until(d.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}

// Audit records every mutating request with its outcome.
func Audit(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			id, _ := auth.IdentityFromContext(r.Context())
			status := "success"
			if sw.status >= 400 {
				status = "failed"
			}
			auditLog.LogAction(r.Context(), id.TenantID, id.SubjectID, r.Method, r.URL.Path, r.PathValue("id"),
				status, strconv.Itoa(sw.status))
		})
	}
}

// ClientIP returns the caller address, honoring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
