package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestApplicationSQLite(t *testing.T) {
	cfg := Config{
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		TokenLifetime:        2 * time.Hour,
		StoreDriver:          StoreDriverSQLite,
		DatabaseFile:         filepath.Join(t.TempDir(), "auth.db"),
	}

	app, err := New(cfg)
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, app.Users().PutUser(ctx, domain.User{ID: "alice"}))

	client, err := app.Clients().RegisterClient(ctx, service.ClientRegistration{
		Confidential:  true,
		Scopes:        []string{"read"},
		ResponseTypes: []string{"code"},
		RedirectURIs:  []string{"https://app.example/cb"},
	})
	require.NoError(t, err)

	tok, err := app.Tokens().Issue(ctx, service.IssueRequest{UserID: "alice", ClientID: client.ID})
	require.NoError(t, err)
	require.Equal(t, int64(7200), tok.ExpiresInSeconds())

	req := httptest.NewRequest(http.MethodGet, "/v1/tokens/"+tok.ID, nil)
	req.SetBasicAuth(client.ID, client.Secret)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, app.Shutdown())
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(Config{StoreDriver: "postgres", LogFormat: "text"})
	require.ErrorContains(t, err, "unknown store driver")
}
