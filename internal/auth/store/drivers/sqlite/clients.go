package sqlite

import (
	"context"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

type clientsRepo struct {
	q dbtx
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	var row clientRow
	err := r.q.QueryRowContext(ctx, getClientByID, id).Scan(
		&row.ID,
		&row.Secret,
		&row.Scopes,
		&row.ResponseTypes,
		&row.RedirectURIs,
		&row.TokenEndpointAuthMethod,
	)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row)
}

func (r *clientsRepo) PutClient(ctx context.Context, c domain.Client) error {
	uris, err := encodeURIs(c.RedirectURIs)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, putClient,
		c.ID,
		c.Secret,
		domain.ListToScope(c.Scopes),
		domain.ListToScope(c.ResponseTypes),
		uris,
		c.TokenEndpointAuthMethod,
	)
	return err
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, deleteClient, id)
	return err
}
