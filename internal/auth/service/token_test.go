package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{
		Store: st,
		Clock: fixedClock(testNow),
		NewID: func() (string, error) { return "00112233445566778899aabbccddeeff", nil },
	}

	tok, err := svc.Create(ctx, user.ID, client.ID, "access", "refresh")
	require.NoError(t, err)
	require.Equal(t, "00112233445566778899aabbccddeeff", tok.ID)
	require.Equal(t, testNow, tok.IssuedAt)
	require.Equal(t, testNow.Add(5*time.Hour), tok.ExpiresAt)
	require.Equal(t, int64(18000), tok.ExpiresInSeconds())

	// Reload by generated id.
	got, err := svc.Get(ctx, tok.ID)
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestCreateTokenDefaults(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{Store: st}

	before := time.Now().UTC()
	tok, err := svc.Create(ctx, user.ID, client.ID, "access", "")
	require.NoError(t, err)

	require.Len(t, tok.ID, 32)
	require.WithinDuration(t, before, tok.IssuedAt, time.Minute)
	require.Equal(t, 18000*time.Second, tok.ExpiresIn())
	require.False(t, tok.HasRefreshToken())
}

func TestCreateTokenConfiguredLifetime(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{Store: st, Lifetime: 30 * time.Minute, Clock: fixedClock(testNow)}

	tok, err := svc.Create(ctx, user.ID, client.ID, "access", "")
	require.NoError(t, err)
	require.Equal(t, int64(1800), tok.ExpiresInSeconds())
}

func TestCreateTokenInvalidReference(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TokenService{Store: st}

	_, err := svc.Create(ctx, "", "client-1", "access", "")
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = svc.Create(ctx, "user-1", "", "access", "")
	require.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestCreateTokenIDCollision(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{
		Store: st,
		NewID: func() (string, error) { return "deadbeefdeadbeefdeadbeefdeadbeef", nil },
	}

	_, err := svc.Create(ctx, user.ID, client.ID, "first", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, user.ID, client.ID, "second", "")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := svc.Get(ctx, "deadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	require.Equal(t, "first", got.AccessToken)
}

func TestIssueConcurrentUniqueIDs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{Store: st}

	const workers = 32
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{}, workers)
	)

	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := svc.Issue(ctx, IssueRequest{UserID: user.ID, ClientID: client.ID, WithRefresh: true})
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			ids[tok.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, ids, workers)
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{Store: st, Clock: fixedClock(testNow)}

	t.Run("with refresh", func(t *testing.T) {
		tok, err := svc.Issue(ctx, IssueRequest{UserID: user.ID, ClientID: client.ID, WithRefresh: true})
		require.NoError(t, err)
		require.NotEmpty(t, tok.AccessToken)
		require.True(t, tok.HasRefreshToken())
		require.NotEqual(t, tok.AccessToken, tok.RefreshToken)
	})

	t.Run("without refresh", func(t *testing.T) {
		tok, err := svc.Issue(ctx, IssueRequest{UserID: user.ID, ClientID: client.ID})
		require.NoError(t, err)
		require.False(t, tok.HasRefreshToken())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Issue(ctx, IssueRequest{UserID: "nobody", ClientID: client.ID})
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.Issue(ctx, IssueRequest{UserID: user.ID, ClientID: "nobody"})
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("missing ids", func(t *testing.T) {
		_, err := svc.Issue(ctx, IssueRequest{})
		require.ErrorIs(t, err, domain.ErrInvalidReference)
	})
}

func TestGetTokenNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := &TokenService{Store: st}

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTokenNotFound)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestScopeIsResolvedLive(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	svc := &TokenService{Store: st}
	clients := &ClientService{Store: st}

	tok, err := svc.Create(ctx, user.ID, client.ID, "access", "")
	require.NoError(t, err)

	scope, err := svc.Scope(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "a c", scope)

	// Narrowing the client narrows the outstanding token.
	client.Scopes = []string{"c"}
	require.NoError(t, clients.UpdateClient(ctx, client))

	scope, err = svc.Scope(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "c", scope)

	// Deleting the client leaves a dangling reference, not stale data.
	require.NoError(t, clients.DeleteClient(ctx, client.ID))

	scope, err = svc.Scope(ctx, tok)
	require.ErrorIs(t, err, domain.ErrDanglingReference)
	require.NotErrorIs(t, err, store.ErrNotFound)
	require.Empty(t, scope)
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user, client := seed(t, st)

	now := testNow
	svc := &TokenService{Store: st, Clock: func() time.Time { return now }}

	tok, err := svc.Create(ctx, user.ID, client.ID, "access", "")
	require.NoError(t, err)

	t.Run("active", func(t *testing.T) {
		got, err := svc.Inspect(ctx, tok.ID)
		require.NoError(t, err)
		require.Equal(t, TokenInspection{
			Active:    true,
			Scope:     "a c",
			ClientID:  client.ID,
			UserID:    user.ID,
			IssuedAt:  tok.IssuedAt,
			ExpiresAt: tok.ExpiresAt,
			ExpiresIn: 18000,
		}, got)
	})

	t.Run("expired", func(t *testing.T) {
		now = testNow.Add(5 * time.Hour)
		t.Cleanup(func() { now = testNow })

		got, err := svc.Inspect(ctx, tok.ID)
		require.NoError(t, err)
		require.Equal(t, TokenInspection{Active: false}, got)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := svc.Inspect(ctx, "missing")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("dangling client", func(t *testing.T) {
		require.NoError(t, st.Clients().DeleteClient(ctx, client.ID))

		got, err := svc.Inspect(ctx, tok.ID)
		require.NoError(t, err)
		require.False(t, got.Active)
	})
}
