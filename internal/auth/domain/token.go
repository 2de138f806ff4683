package domain

import (
	"strings"
	"time"
)

// DefaultTokenLifetime is how long an issued token stays valid unless the
// issuer is configured otherwise.
const DefaultTokenLifetime = 5 * time.Hour

// TokenInfo is the read side of a token consumed by grant flows and resource
// servers. Token satisfies it. Scope is not part of it: scope lives on the
// client and is resolved through the store.
type TokenInfo interface {
	GetClientID() string
	GetUserID() string
	ExpiresIn() time.Duration
	GetExpiresAt() time.Time
}

var _ TokenInfo = Token{}

// Token is an issued bearer credential. It references its client and user by
// id only and is never mutated after creation.
type Token struct {
	ID           string
	UserID       string
	ClientID     string
	AccessToken  string
	RefreshToken string // empty when the flow grants no refresh capability
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// TokenParams carries everything NewToken needs. ID, IssuedAt and Lifetime
// are supplied by the caller so id entropy and the clock stay injectable.
type TokenParams struct {
	ID           string
	UserID       string
	ClientID     string
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	Lifetime     time.Duration
}

// NewToken builds a token from p. It fails with ErrInvalidReference when the
// user or client id is missing.
func NewToken(p TokenParams) (Token, error) {
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.ClientID) == "" {
		return Token{}, ErrInvalidReference
	}
	if p.ID == "" || p.AccessToken == "" || p.Lifetime <= 0 {
		return Token{}, ErrInvalidToken
	}

	issuedAt := p.IssuedAt.UTC()
	return Token{
		ID:           p.ID,
		UserID:       p.UserID,
		ClientID:     p.ClientID,
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(p.Lifetime),
	}, nil
}

func (t Token) GetClientID() string     { return t.ClientID }
func (t Token) GetUserID() string       { return t.UserID }
func (t Token) GetExpiresAt() time.Time { return t.ExpiresAt }

// ExpiresIn is the token's total lifetime (expires_at - issued_at) truncated
// to whole seconds. It is not the time remaining.
func (t Token) ExpiresIn() time.Duration {
	return t.ExpiresAt.Sub(t.IssuedAt).Truncate(time.Second)
}

// ExpiresInSeconds is ExpiresIn as an integer number of seconds.
func (t Token) ExpiresInSeconds() int64 {
	return int64(t.ExpiresIn() / time.Second)
}

// IsExpired reports whether the token is past its expiry at now.
func (t Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// HasRefreshToken reports whether the token was issued with refresh capability.
func (t Token) HasRefreshToken() bool {
	return t.RefreshToken != ""
}
