package pkg

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/blogbase/internal/domain"
)

// Tokens issues and verifies access tokens whose subject is a user id on top
// of a jwt.Service.
type Tokens struct {
	svc jwt.Service
	ttl time.Duration
}

// NewTokens builds a jwt.Service signing with secret and wraps it. ttl must
// be positive. Call Close when the Tokens are no longer used.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("tokens: empty secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("tokens: invalid ttl %s", ttl)
	}
	svc, err := jwt.New(secret)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}
	return &Tokens{svc: svc, ttl: ttl}, nil
}

// NewTokensWithService wraps an existing jwt.Service.
func NewTokensWithService(svc jwt.Service, ttl time.Duration) (*Tokens, error) {
	if svc == nil {
		return nil, errors.New("tokens: nil jwt service")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("tokens: invalid ttl %s", ttl)
	}
	return &Tokens{svc: svc, ttl: ttl}, nil
}

// Issue signs a token for userID and returns it with its expiry.
func (t *Tokens) Issue(userID uint) (string, time.Time, error) {
	raw, err := t.svc.GenerateToken(strconv.FormatUint(uint64(userID), 10), nil, t.ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	parsed, err := t.svc.ParseToken(raw)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse issued token: %w", err)
	}
	return raw, parsed.ExpiresAt, nil
}

// Verify checks raw and returns the user id it was issued for. Every failure
// is reported as unauthorized.
func (t *Tokens) Verify(raw string) (uint, error) {
	if raw == "" {
		return 0, domain.ErrUnauthorized
	}
	tok, err := t.svc.ValidateToken(raw)
	if err != nil {
		return 0, domain.NewAppError(domain.CodeUnauthorized, domain.ErrUnauthorized.Message, err)
	}
	if tok == nil {
		return 0, domain.ErrUnauthorized
	}
	id, err := strconv.ParseUint(tok.UserID, 10, 0)
	if err != nil || id == 0 {
		return 0, domain.NewAppError(domain.CodeUnauthorized, domain.ErrUnauthorized.Message,
			fmt.Errorf("invalid subject %q", tok.UserID))
	}
	return uint(id), nil
}

// Close stops the jwt.Service background work.
func (t *Tokens) Close() {
	if t != nil && t.svc != nil {
		t.svc.Close()
	}
}
