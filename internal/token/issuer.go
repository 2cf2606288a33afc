package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Session is the read-only authenticated state a token is minted from.
// Document is the nested lookup the claim path resolver indexes
// (e.g. user.email, session.id).
type Session struct {
	UserID    string
	Email     string
	SessionID string
	ExpiresAt time.Time
	Document  map[string]any
}

// IssuerConfig configures an Issuer. The signing secret is injected here and
// never read from ambient state.
type IssuerConfig struct {
	// Secret is the shared HS256 signing secret.
	Secret []byte
	// BaseURL becomes the iss and azp claims.
	BaseURL string
	// Claims is the optional static claims template merged into every token.
	Claims Template
}

// Issuer mints signed, time-bounded integration tokens. It is stateless and
// safe for concurrent use; every request produces a fresh token.
type Issuer struct {
	secret  []byte
	baseURL string
	claims  Template
	now     func() time.Time
}

// NewIssuer validates the configuration and returns an Issuer.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	return &Issuer{
		secret:  cfg.Secret,
		baseURL: cfg.BaseURL,
		claims:  cfg.Claims,
		now:     time.Now,
	}, nil
}

// Issue resolves the claims template against the session, builds the fixed
// claim set and returns the signed compact token. A nil session yields
// ErrUnauthorized. Template claims may override aud/role/email and the
// metadata objects but never sub, sid, iss, azp or the time bounds.
func (i *Issuer) Issue(sess *Session) (string, error) {
	if sess == nil {
		return "", ErrUnauthorized
	}

	now := i.now()
	b := jwt.NewBuilder().
		Audience([]string{"authenticated"}).
		Claim("role", "authenticated").
		Claim("email", sess.Email).
		Claim("app_metadata", map[string]any{}).
		Claim("user_metadata", map[string]any{})

	for k, v := range i.claims.Merge(sess.Document) {
		b = b.Claim(k, v)
	}

	b = b.Subject(sess.UserID).
		Claim("sid", sess.SessionID).
		Claim("azp", i.baseURL).
		Issuer(i.baseURL).
		IssuedAt(now).
		NotBefore(now.Add(-5 * time.Second)).
		Expiration(sess.ExpiresAt)

	tok, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("token: build claims: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, i.secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	if len(signed) == 0 {
		return "", ErrSigningFailed
	}
	return string(signed), nil
}
