package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// Session is the outcome of a successful login. Token and Cookie.Value are
// always the same string.
type Session struct {
	Identity Identity
	Token    string
	Cookie   *http.Cookie
}

// Issuer mints sessions for principals whose password was already checked.
type Issuer struct {
	tokens       *TokenManager
	creds        domain.CredentialStore
	secureCookie bool
	now          func() time.Time
	logger       *slog.Logger
}

func NewIssuer(tokens *TokenManager, creds domain.CredentialStore, secureCookie bool, logger *slog.Logger) *Issuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{tokens: tokens, creds: creds, secureCookie: secureCookie, now: time.Now, logger: logger}
}

// Issue encodes one token for p, records the login and returns the token
// with its delivery cookie.
func (i *Issuer) Issue(ctx context.Context, p *domain.Principal) (*Session, error) {
	id := Identity{SubjectID: p.ID, Role: p.Role, TenantID: p.TenantID}
	token, err := i.tokens.Encode(id)
	if err != nil {
		i.logger.Error("failed to sign token",
			slog.String("subject_id", p.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	at := i.now().UTC()
	if err := i.creds.RecordLogin(ctx, p.Role, p.ID, at); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	p.LastLogin = &at

	i.logger.Info("session issued",
		slog.String("subject_id", p.ID),
		slog.String("role", string(p.Role)),
		slog.String("tenant_id", p.TenantID),
	)
	return &Session{
		Identity: id,
		Token:    token,
		Cookie:   SessionCookie(CookieName(p.Role), token, i.tokens.TTL(), i.secureCookie),
	}, nil
}

// SecureCookie reports whether cookies are marked Secure.
func (i *Issuer) SecureCookie() bool {
	return i.secureCookie
}
