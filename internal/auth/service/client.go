package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/aussiebroadwan/oauthcore/pkg/cryptox"
	"github.com/aussiebroadwan/oauthcore/pkg/idx"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

var (
	ErrClientNotFound          = errors.New("client not found")
	ErrInvalidClient           = errors.New("invalid_client")
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")
	ErrInvalidRedirectURI      = errors.New("invalid_redirect_uri")
)

type ClientService struct {
	Store store.Store
}

// ClientRegistration describes a client to register. The id and, for
// confidential clients, the secret are generated.
type ClientRegistration struct {
	Confidential            bool
	Scopes                  []string
	ResponseTypes           []string
	RedirectURIs            []string
	TokenEndpointAuthMethod string
}

// RegisterClient validates and stores a new OAuth2 client. The returned client
// carries the generated secret, which callers should show once.
// Returns domain.ErrMalformedClient when no redirect URI is registered.
func (s *ClientService) RegisterClient(ctx context.Context, reg ClientRegistration) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	var secret string
	if reg.Confidential {
		var err error
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			l.Error("failed to generate client secret", "error", err)
			return domain.Client{}, err
		}
	}

	authMethod := reg.TokenEndpointAuthMethod
	if !reg.Confidential {
		if authMethod == "" {
			authMethod = domain.AuthMethodNone
		}
		if authMethod != domain.AuthMethodNone {
			l.Warn("rejected client registration: public client with secret auth method", "method", authMethod)
			return domain.Client{}, fmt.Errorf("public client cannot use %q: %w", authMethod, domain.ErrMalformedClient)
		}
	}

	client, err := domain.NewClient(domain.Client{
		ID:                      idx.New().String(),
		Secret:                  secret,
		Scopes:                  reg.Scopes,
		ResponseTypes:           reg.ResponseTypes,
		RedirectURIs:            reg.RedirectURIs,
		TokenEndpointAuthMethod: authMethod,
	})
	if err != nil {
		l.Warn("rejected client registration", "error", err)
		return domain.Client{}, err
	}

	if err := s.Store.Clients().PutClient(ctx, client); err != nil {
		l.Error("failed to store client", "error", err)
		return domain.Client{}, err
	}

	l.Info("client registered", "client_id", client.ID, "has_secret", client.HasClientSecret())
	return client, nil
}

// UpdateClient replaces a registered client, e.g. to narrow its scope. The
// change applies to every outstanding token of the client on its next scope
// lookup.
func (s *ClientService) UpdateClient(ctx context.Context, c domain.Client) error {
	if _, err := s.GetClient(ctx, c.ID); err != nil {
		return err
	}

	client, err := domain.NewClient(c)
	if err != nil {
		return err
	}
	if err := s.Store.Clients().PutClient(ctx, client); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("client updated", "client_id", c.ID)
	return nil
}

// GetClient fetches a client by id.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}

// DeleteClient removes a client. Its tokens stay stored but can no longer
// resolve a scope.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.GetClient(ctx, clientID); err != nil {
		return err
	}

	if err := s.Store.Clients().DeleteClient(ctx, clientID); err != nil {
		l.Error("failed to delete client", "error", err, "client_id", clientID)
		return err
	}

	l.Info("client deleted successfully", "client_id", clientID)
	return nil
}

// AuthenticateClient authenticates a client at the token endpoint. The method
// must be the one the client registered and, for every method but "none", the
// secret must match. A client without a secret never passes a secret-based
// method. Every failure is reported as ErrInvalidClient so callers
// cannot distinguish an unknown client from a bad secret.
func (s *ClientService) AuthenticateClient(ctx context.Context, clientID, secret, method string) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("client authentication failed: unknown client", "client_id", clientID)
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, fmt.Errorf("load client: %w", err)
	}

	if !client.CheckTokenEndpointAuthMethod(method) {
		l.Info("client authentication failed: auth method", "client_id", clientID, "method", method)
		return domain.Client{}, ErrInvalidClient
	}

	if method != domain.AuthMethodNone && !client.CheckClientSecret(secret) {
		l.Info("client authentication failed: secret mismatch", "client_id", clientID)
		return domain.Client{}, ErrInvalidClient
	}

	return client, nil
}

// ValidateAuthorizationRequest runs the client checks an authorization
// endpoint needs before asking the user for consent: response type, grant
// type and redirect URI. An empty redirect URI selects the client's default.
// It returns the redirect URI to use and the narrowed scope.
func (s *ClientService) ValidateAuthorizationRequest(
	ctx context.Context,
	clientID, responseType, redirectURI, scope string,
) (string, string, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return "", "", ErrInvalidClient
		}
		return "", "", err
	}

	// The response type names the grant being started; only "code" passes
	// the grant check.
	if !client.CheckResponseType(responseType) || !client.CheckGrantType(responseType) {
		return "", "", ErrUnsupportedResponseType
	}

	if redirectURI == "" {
		redirectURI, err = client.DefaultRedirectURI()
		if err != nil {
			return "", "", err
		}
	} else if !client.CheckRedirectURI(redirectURI) {
		return "", "", ErrInvalidRedirectURI
	}

	return redirectURI, client.AllowedScope(scope), nil
}
