package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, s3)
// implement this. Every lookup is a point read by primary key, so
// the sub-repositories carry no secondary indexes and no transactions.
type Store interface {
	Users() Users
	Clients() Clients
	Tokens() Tokens

	// ApplyMigrations brings the backing schema up to date. Drivers without
	// a schema treat it as a no-op.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// PutUser inserts or replaces a user keyed by its id.
	PutUser(ctx context.Context, u domain.User) error
}

type Clients interface {
	// GetClientByID fetches a client by its client_id.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// PutClient inserts or replaces a client keyed by its id.
	PutClient(ctx context.Context, c domain.Client) error

	// DeleteClient removes a client. Tokens that reference it are left in
	// place and will fail scope resolution.
	DeleteClient(ctx context.Context, id string) error
}

type Tokens interface {
	// CreateToken stores a new token. A token with the same id already being
	// present is reported as ErrAlreadyExists and never overwritten.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetTokenByID returns a token by its generated id.
	GetTokenByID(ctx context.Context, id string) (domain.Token, error)

	// DeleteExpiredTokens removes tokens that expired at or before the given
	// time and returns how many were removed.
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}
