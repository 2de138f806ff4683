package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/aussiebroadwan/oauthcore/pkg/cryptox"
	"github.com/aussiebroadwan/oauthcore/pkg/idx"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenService issues and inspects tokens. Clock and NewID are injectable for
// tests; nil values fall back to time.Now and idx.NewHex.
type TokenService struct {
	Store    store.Store
	Lifetime time.Duration // defaults to domain.DefaultTokenLifetime
	Clock    func() time.Time
	NewID    func() (string, error)
}

// IssueRequest asks for a new token for an already authorized user/client pair.
type IssueRequest struct {
	UserID      string
	ClientID    string
	WithRefresh bool
}

// TokenInspection is what a resource server learns about a token.
type TokenInspection struct {
	Active    bool      `json:"active"`
	Scope     string    `json:"scope,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	UserID    string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitzero"`
	ExpiresAt time.Time `json:"exp,omitzero"`
	ExpiresIn int64     `json:"expires_in,omitempty"`
}

func (s *TokenService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *TokenService) lifetime() time.Duration {
	if s.Lifetime > 0 {
		return s.Lifetime
	}
	return domain.DefaultTokenLifetime
}

func (s *TokenService) newID() (string, error) {
	if s.NewID != nil {
		return s.NewID()
	}
	id, err := idx.NewHex()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create builds and stores a token for userID and clientID. The caller is
// responsible for having validated that both exist. It fails with
// domain.ErrInvalidReference when either id is empty. An id collision
// surfaces as store.ErrAlreadyExists and is not retried.
func (s *TokenService) Create(
	ctx context.Context,
	userID, clientID, accessToken, refreshToken string,
) (domain.Token, error) {
	l := slogx.FromContext(ctx)

	id, err := s.newID()
	if err != nil {
		l.Error("failed to generate token id", "error", err)
		return domain.Token{}, err
	}

	tok, err := domain.NewToken(domain.TokenParams{
		ID:           id,
		UserID:       userID,
		ClientID:     clientID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IssuedAt:     s.now(),
		Lifetime:     s.lifetime(),
	})
	if err != nil {
		return domain.Token{}, err
	}

	if err := s.Store.Tokens().CreateToken(ctx, tok); err != nil {
		l.Error("failed to store token", "error", err, "token_id", tok.ID, "client_id", clientID)
		return domain.Token{}, err
	}

	l.Info("token issued", "token_id", tok.ID, "client_id", clientID, "user_id", userID, "expires_at", tok.ExpiresAt)
	return tok, nil
}

// Issue generates the bearer (and optional refresh) credentials for an
// authorized user/client pair and stores the token. Unlike Create it checks
// that both referenced entities exist.
func (s *TokenService) Issue(ctx context.Context, req IssueRequest) (domain.Token, error) {
	if req.UserID == "" || req.ClientID == "" {
		return domain.Token{}, domain.ErrInvalidReference
	}

	if _, err := s.Store.Users().GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, ErrUserNotFound
		}
		return domain.Token{}, err
	}
	if _, err := s.Store.Clients().GetClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, ErrInvalidClient
		}
		return domain.Token{}, err
	}

	access, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Token{}, err
	}

	var refresh string
	if req.WithRefresh {
		refresh, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return domain.Token{}, err
		}
	}

	return s.Create(ctx, req.UserID, req.ClientID, access, refresh)
}

// Get loads a token by id.
func (s *TokenService) Get(ctx context.Context, tokenID string) (domain.Token, error) {
	tok, err := s.Store.Tokens().GetTokenByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, fmt.Errorf("%w: %w", ErrTokenNotFound, err)
		}
		return domain.Token{}, err
	}
	return tok, nil
}

// Scope resolves the token's effective scope from its client as it is
// registered now. Nothing is cached: narrowing a client's scope narrows every
// outstanding token, and a deleted client yields domain.ErrDanglingReference.
func (s *TokenService) Scope(ctx context.Context, tok domain.Token) (string, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, tok.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("token %s: client %s: %w", tok.ID, tok.ClientID, domain.ErrDanglingReference)
		}
		return "", err
	}
	return client.ScopeString(), nil
}

// Inspect loads a token and reports whether it can be honoured right now. An
// expired token, or one whose client has been deleted, is reported inactive
// with no other details.
func (s *TokenService) Inspect(ctx context.Context, tokenID string) (TokenInspection, error) {
	tok, err := s.Get(ctx, tokenID)
	if err != nil {
		return TokenInspection{}, err
	}
	return s.InspectToken(ctx, tok)
}

// InspectToken is Inspect for a token the caller has already loaded.
func (s *TokenService) InspectToken(ctx context.Context, tok domain.Token) (TokenInspection, error) {
	l := slogx.FromContext(ctx)

	if tok.IsExpired(s.now()) {
		return TokenInspection{Active: false}, nil
	}

	scope, err := s.Scope(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrDanglingReference) {
			l.Warn("token references a deleted client", "token_id", tok.ID, "client_id", tok.ClientID)
			return TokenInspection{Active: false}, nil
		}
		return TokenInspection{}, err
	}

	return TokenInspection{
		Active:    true,
		Scope:     scope,
		ClientID:  tok.ClientID,
		UserID:    tok.UserID,
		IssuedAt:  tok.IssuedAt,
		ExpiresAt: tok.ExpiresAt,
		ExpiresIn: tok.ExpiresInSeconds(),
	}, nil
}
