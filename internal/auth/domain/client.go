package domain

import (
	"slices"

	"github.com/aussiebroadwan/oauthcore/pkg/cryptox"
)

const (
	// DefaultTokenEndpointAuthMethod is used when a client registers without
	// naming its token endpoint authentication method.
	DefaultTokenEndpointAuthMethod = "client_secret_basic"

	// AuthMethodNone marks a public client that authenticates without a secret.
	AuthMethodNone = "none"

	// GrantTypeAuthorizationCode is the only grant type clients may use.
	GrantTypeAuthorizationCode = "code"
)

// ClientValidator is the set of checks a grant flow runs against a client
// before issuing anything. Client satisfies it.
type ClientValidator interface {
	ClientID() string
	DefaultRedirectURI() (string, error)
	AllowedScope(requested string) string
	CheckRedirectURI(redirectURI string) bool
	HasClientSecret() bool
	CheckClientSecret(secret string) bool
	CheckTokenEndpointAuthMethod(method string) bool
	CheckResponseType(responseType string) bool
	CheckGrantType(grantType string) bool
}

var _ ClientValidator = Client{}

// Client is a registered OAuth2 client application.
type Client struct {
	ID                      string
	Secret                  string   // empty for public clients
	Scopes                  []string // maximal set the client may request
	ResponseTypes           []string
	RedirectURIs            []string // first entry is the default
	TokenEndpointAuthMethod string
}

// NewClient validates c and fills in defaults. A client must register at
// least one redirect URI. Scopes and response types are flattened to single
// tokens.
func NewClient(c Client) (Client, error) {
	if len(c.RedirectURIs) == 0 {
		return Client{}, ErrMalformedClient
	}
	if c.TokenEndpointAuthMethod == "" {
		c.TokenEndpointAuthMethod = DefaultTokenEndpointAuthMethod
	}
	c.Scopes = NormalizeScopes(c.Scopes)
	c.ResponseTypes = NormalizeScopes(c.ResponseTypes)
	return c, nil
}

// ClientID returns the client's identifier.
func (c Client) ClientID() string { return c.ID }

// DefaultRedirectURI returns the first registered redirect URI.
func (c Client) DefaultRedirectURI() (string, error) {
	if len(c.RedirectURIs) == 0 {
		return "", ErrMalformedClient
	}
	return c.RedirectURIs[0], nil
}

// CheckRedirectURI reports whether redirectURI exactly matches a registered
// URI. No normalisation is applied; case and scheme variants do not match.
func (c Client) CheckRedirectURI(redirectURI string) bool {
	return slices.Contains(c.RedirectURIs, redirectURI)
}

// HasClientSecret reports whether the client is confidential.
func (c Client) HasClientSecret() bool {
	return c.Secret != ""
}

// CheckClientSecret compares secret against the registered secret in
// constant time. Public clients never match.
func (c Client) CheckClientSecret(secret string) bool {
	if !c.HasClientSecret() {
		return false
	}
	return cryptox.Equal(c.Secret, secret)
}

// CheckTokenEndpointAuthMethod reports whether method is the registered one.
func (c Client) CheckTokenEndpointAuthMethod(method string) bool {
	return c.TokenEndpointAuthMethod == method
}

// CheckResponseType reports whether responseType was registered.
func (c Client) CheckResponseType(responseType string) bool {
	return slices.Contains(c.ResponseTypes, responseType)
}

// CheckGrantType only admits the authorization code grant, whatever the
// client's own registration says.
func (c Client) CheckGrantType(grantType string) bool {
	return grantType == GrantTypeAuthorizationCode
}

// AllowedScope narrows a requested scope string to what the client is
// registered for. Requested order and duplicates are kept; unknown scopes are
// dropped rather than rejected.
func (c Client) AllowedScope(requested string) string {
	if requested == "" {
		return ""
	}

	allowed := make(map[string]struct{}, len(c.Scopes))
	for _, s := range c.Scopes {
		for _, part := range ScopeToList(s) {
			allowed[part] = struct{}{}
		}
	}

	out := make([]string, 0)
	for _, s := range ScopeToList(requested) {
		if _, ok := allowed[s]; ok {
			out = append(out, s)
		}
	}
	return ListToScope(out)
}

// ScopeString returns the registered scope as a space-delimited string.
func (c Client) ScopeString() string {
	return ListToScope(c.Scopes)
}
