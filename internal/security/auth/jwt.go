package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// DefaultTTL is the lifetime of a session token for both principal kinds.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrTokenInvalid covers malformed, forged and wrongly signed tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Identity is the decoded subject of a session token.
type Identity struct {
	SubjectID string
	Role      domain.Role
	TenantID  string
}

type Claims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if issuer == "" {
		issuer = "hrportal"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// TTL returns how long issued tokens stay valid.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Encode signs id into a compact HS256 token.
func (tm *TokenManager) Encode(id Identity) (string, error) {
	if id.SubjectID == "" || id.TenantID == "" || !id.Role.Valid() {
		return "", fmt.Errorf("subject, role and tenant required")
	}
	now := tm.now()
	claims := Claims{
		Role:     string(id.Role),
		TenantID: id.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Decode verifies the token and returns its identity. Errors are
// ErrTokenExpired or ErrTokenInvalid.
func (tm *TokenManager) Decode(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrTokenInvalid
	}
	id := Identity{SubjectID: claims.Subject, Role: domain.Role(claims.Role), TenantID: claims.TenantID}
	if id.SubjectID == "" || id.TenantID == "" || !id.Role.Valid() {
		return Identity{}, fmt.Errorf("%w: incomplete claims", ErrTokenInvalid)
	}
	return id, nil
}
