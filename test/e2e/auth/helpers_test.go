package auth_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/app"
	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/service"
	"github.com/aussiebroadwan/oauthcore/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for auth service end-to-end tests. Each test boots the full
 * application on a fresh SQLite file and talks to it over HTTP through the
 * SDK, the way a resource server would.
 */

const (
	testUserID    = "alice"
	testUserEmail = "alice@example.com"
)

var clientScopes = []string{"profile:read", "profile:write"}

type testEnv struct {
	app    *app.Application
	sdk    *authsdk.SDKClient
	client domain.Client
}

// setupAuthService starts the application behind an httptest server and
// registers one user and one confidential client.
func setupAuthService(t *testing.T) *testEnv {
	t.Helper()

	application, err := app.New(app.Config{
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "json",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		TokenLifetime:        5 * time.Hour,
		StoreDriver:          app.StoreDriverSQLite,
		DatabaseFile:         filepath.Join(t.TempDir(), "auth.db"),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		if err := application.Shutdown(); err != nil {
			t.Logf("failed to shut down application: %v", err)
		}
	})

	ctx := t.Context()
	require.NoError(t, application.Users().PutUser(ctx, domain.User{ID: testUserID, EmailAddress: testUserEmail}))

	env := &testEnv{
		app: application,
		sdk: authsdk.NewSDKClient(srv.URL),
	}

	client, err := application.Clients().RegisterClient(ctx, env.registration())
	require.NoError(t, err)
	env.client = client

	return env
}

// registration describes a confidential client with the default test scopes.
func (e *testEnv) registration() service.ClientRegistration {
	return service.ClientRegistration{
		Confidential:  true,
		Scopes:        clientScopes,
		ResponseTypes: []string{"code"},
		RedirectURIs:  []string{"https://app.example/callback"},
	}
}

// issueToken issues a token for the test user and client.
func (e *testEnv) issueToken(t *testing.T) domain.Token {
	t.Helper()
	tok, err := e.app.Tokens().Issue(t.Context(), service.IssueRequest{
		UserID:      testUserID,
		ClientID:    e.client.ID,
		WithRefresh: true,
	})
	require.NoError(t, err)
	return tok
}

// assertHealthy checks that a health response is valid and healthy.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, app.BuildVersion, health.Version)
}
