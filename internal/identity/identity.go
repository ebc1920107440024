// Package identity resolves the caller of an HTTP request. Two credentials
// are accepted: a Google ID token in the Authorization header, and, behind a
// trusted gateway, the forwarded x-user-* headers.
package identity

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/api/idtoken"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/model"
)

// Headers forwarded by the gateway.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserEmail = "x-user-email"
	HeaderUserName  = "x-user-name"
)

// ValidateFunc verifies an ID token for audience. idtoken.Validate satisfies
// it.
type ValidateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier identifies callers.
type Verifier struct {
	clientID     string
	trustHeaders bool
	validate     ValidateFunc
}

// NewVerifier returns a Verifier. Bearer tokens are checked only when
// clientID is set.
func NewVerifier(clientID string, trustHeaders bool) *Verifier {
	return &Verifier{clientID: clientID, trustHeaders: trustHeaders, validate: idtoken.Validate}
}

// WithValidator replaces the token validator.
func (v *Verifier) WithValidator(fn ValidateFunc) *Verifier {
	v.validate = fn
	return v
}

// Identify returns the caller, or nil with no error when the request carries
// no credential. A credential that fails verification is Unauthorized.
func (v *Verifier) Identify(r *http.Request) (*model.Identity, error) {
	if token, ok := bearer(r.Header.Get("Authorization")); ok && v.clientID != "" {
		payload, err := v.validate(r.Context(), token, v.clientID)
		if err != nil {
			return nil, apperrors.Unauthorized("invalid ID token", err)
		}
		return &model.Identity{
			UserID: payload.Subject,
			Email:  claim(payload, "email"),
			Name:   claim(payload, "name"),
		}, nil
	}

	if v.trustHeaders {
		if userID := strings.TrimSpace(r.Header.Get(HeaderUserID)); userID != "" {
			return &model.Identity{
				UserID: userID,
				Email:  r.Header.Get(HeaderUserEmail),
				Name:   r.Header.Get(HeaderUserName),
			}, nil
		}
	}
	return nil, nil
}

func bearer(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func claim(p *idtoken.Payload, key string) string {
	s, _ := p.Claims[key].(string)
	return s
}
