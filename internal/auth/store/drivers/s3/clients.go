package s3

import (
	"context"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

type clientObject struct {
	ID                      string   `json:"id"`
	Secret                  string   `json:"secret,omitempty"`
	Scopes                  []string `json:"scopes,omitempty"`
	ResponseTypes           []string `json:"response_types,omitempty"`
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
}

func toClientObject(c domain.Client) clientObject {
	return clientObject{
		ID:                      c.ID,
		Secret:                  c.Secret,
		Scopes:                  domain.NormalizeScopes(c.Scopes),
		ResponseTypes:           domain.NormalizeScopes(c.ResponseTypes),
		RedirectURIs:            c.RedirectURIs,
		TokenEndpointAuthMethod: c.TokenEndpointAuthMethod,
	}
}

func (o clientObject) toDomain() domain.Client {
	return domain.Client{
		ID:                      o.ID,
		Secret:                  o.Secret,
		Scopes:                  o.Scopes,
		ResponseTypes:           o.ResponseTypes,
		RedirectURIs:            o.RedirectURIs,
		TokenEndpointAuthMethod: o.TokenEndpointAuthMethod,
	}
}

type clientsRepo struct {
	s *Store
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	var obj clientObject
	if err := r.s.getJSON(ctx, r.s.objectKey(clientsDir, id), &obj); err != nil {
		return domain.Client{}, err
	}
	return obj.toDomain(), nil
}

func (r *clientsRepo) PutClient(ctx context.Context, c domain.Client) error {
	return r.s.putJSON(ctx, r.s.objectKey(clientsDir, c.ID), toClientObject(c), false)
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	return r.s.deleteObject(ctx, r.s.objectKey(clientsDir, id))
}
