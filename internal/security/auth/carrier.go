package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const (
	HRCookie       = "HRtoken"
	EmployeeCookie = "EMtoken"
)

// CookieName returns the session cookie for a principal kind.
func CookieName(role domain.Role) string {
	if role == domain.RoleHRAdmin {
		return HRCookie
	}
	return EmployeeCookie
}

// Source says which part of the request carried the token.
type Source int

const (
	SourceNone Source = iota
	SourceCookie
	SourceHeader
	SourceQuery
)

func (s Source) String() string {
	switch s {
	case SourceCookie:
		return "cookie"
	case SourceHeader:
		return "header"
	case SourceQuery:
		return "query"
	default:
		return "none"
	}
}

// Carrier finds a session token on a request. Lookup order is the named
// cookies, then the bearer header, then the token query parameter when
// AllowQuery is set. The first present source wins.
type Carrier struct {
	Cookies    []string
	AllowQuery bool
}

// Extract returns the token, where it came from and, for cookies, the
// cookie name.
func (c Carrier) Extract(r *http.Request) (token string, src Source, cookie string) {
	for _, name := range c.Cookies {
		if ck, err := r.Cookie(name); err == nil && ck.Value != "" {
			return ck.Value, SourceCookie, name
		}
	}
	if t, err := ExtractToken(r.Header.Get("Authorization")); err == nil {
		return t, SourceHeader, ""
	}
	if c.AllowQuery {
		if t := r.URL.Query().Get("token"); t != "" {
			return t, SourceQuery, ""
		}
	}
	return "", SourceNone, ""
}

// ExtractToken parses an "Authorization: Bearer <token>" header value.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrTokenInvalid
	}
	return parts[1], nil
}

// SessionCookie builds the HTTP-only cookie that delivers token.
func SessionCookie(name, token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the named session cookie.
func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
