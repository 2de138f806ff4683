package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is the subset of *sql.DB the repositories need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	getUserByID = `SELECT id, email_address FROM users WHERE id = ?`

	putUser = `INSERT INTO users (id, email_address) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET email_address = excluded.email_address`

	getClientByID = `SELECT id, secret, scopes, response_types, redirect_uris, token_endpoint_auth_method
FROM clients WHERE id = ?`

	putClient = `INSERT INTO clients (id, secret, scopes, response_types, redirect_uris, token_endpoint_auth_method)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    secret = excluded.secret,
    scopes = excluded.scopes,
    response_types = excluded.response_types,
    redirect_uris = excluded.redirect_uris,
    token_endpoint_auth_method = excluded.token_endpoint_auth_method`

	deleteClient = `DELETE FROM clients WHERE id = ?`

	createToken = `INSERT INTO tokens (id, user_id, client_id, access_token, refresh_token, issued_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	getTokenByID = `SELECT id, user_id, client_id, access_token, refresh_token, issued_at, expires_at
FROM tokens WHERE id = ?`

	deleteExpiredTokens = `DELETE FROM tokens WHERE expires_at <= ?`
)
