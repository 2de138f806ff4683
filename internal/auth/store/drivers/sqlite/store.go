package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection serialises writers and keeps ":memory:" databases
	// shared across the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users     { return &usersRepo{q: s.db} }
func (s *Store) Clients() store.Clients { return &clientsRepo{q: s.db} }
func (s *Store) Tokens() store.Tokens   { return &tokensRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return store.ErrAlreadyExists
		}
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func toUnixNano(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnixNano(n int64) time.Time { return time.Unix(0, n).UTC() }

func encodeURIs(uris []string) (string, error) {
	if uris == nil {
		uris = []string{}
	}
	b, err := json.Marshal(uris)
	if err != nil {
		return "", fmt.Errorf("encode redirect uris: %w", err)
	}
	return string(b), nil
}

func decodeURIs(raw string) ([]string, error) {
	var uris []string
	if err := json.Unmarshal([]byte(raw), &uris); err != nil {
		return nil, fmt.Errorf("decode redirect uris: %w", err)
	}
	return uris, nil
}

type clientRow struct {
	ID                      string
	Secret                  string
	Scopes                  string
	ResponseTypes           string
	RedirectURIs            string
	TokenEndpointAuthMethod string
}

func mapClient(row clientRow) (domain.Client, error) {
	uris, err := decodeURIs(row.RedirectURIs)
	if err != nil {
		return domain.Client{}, err
	}
	return domain.Client{
		ID:                      row.ID,
		Secret:                  row.Secret,
		Scopes:                  domain.ScopeToList(row.Scopes),
		ResponseTypes:           domain.ScopeToList(row.ResponseTypes),
		RedirectURIs:            uris,
		TokenEndpointAuthMethod: row.TokenEndpointAuthMethod,
	}, nil
}

type tokenRow struct {
	ID           string
	UserID       string
	ClientID     string
	AccessToken  string
	RefreshToken sql.NullString
	IssuedAt     int64
	ExpiresAt    int64
}

func mapToken(row tokenRow) domain.Token {
	return domain.Token{
		ID:           row.ID,
		UserID:       row.UserID,
		ClientID:     row.ClientID,
		AccessToken:  row.AccessToken,
		RefreshToken: mapNullString(row.RefreshToken),
		IssuedAt:     fromUnixNano(row.IssuedAt),
		ExpiresAt:    fromUnixNano(row.ExpiresAt),
	}
}
