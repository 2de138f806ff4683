package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "auth.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// seed stores a user and a confidential client with scope "a c".
func seed(t *testing.T, st *sqlite.Store) (domain.User, domain.Client) {
	t.Helper()
	ctx := context.Background()

	user := domain.User{ID: "user-1", EmailAddress: "alice@example.com"}
	require.NoError(t, st.Users().PutUser(ctx, user))

	client, err := domain.NewClient(domain.Client{
		ID:            "client-1",
		Secret:        "s3cret",
		Scopes:        []string{"a", "c"},
		ResponseTypes: []string{"code"},
		RedirectURIs:  []string{"https://app.example/callback", "https://app.example/alt"},
	})
	require.NoError(t, err)
	require.NoError(t, st.Clients().PutClient(ctx, client))

	return user, client
}
