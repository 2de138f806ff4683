package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	base := domain.TokenParams{
		ID:          "0123456789abcdef0123456789abcdef",
		UserID:      "user-1",
		ClientID:    "client-1",
		AccessToken: "access",
		IssuedAt:    issued,
		Lifetime:    domain.DefaultTokenLifetime,
	}

	t.Run("default lifetime is five hours", func(t *testing.T) {
		tok, err := domain.NewToken(base)
		require.NoError(t, err)
		require.Equal(t, issued, tok.IssuedAt)
		require.Equal(t, issued.Add(5*time.Hour), tok.ExpiresAt)
		require.Equal(t, 18000*time.Second, tok.ExpiresIn())
		require.Equal(t, int64(18000), tok.ExpiresInSeconds())
		require.True(t, tok.ExpiresAt.After(tok.IssuedAt))
		require.False(t, tok.HasRefreshToken())
	})

	t.Run("normalises to utc", func(t *testing.T) {
		p := base
		p.IssuedAt = issued.In(time.FixedZone("AEST", 10*60*60))
		tok, err := domain.NewToken(p)
		require.NoError(t, err)
		require.Equal(t, time.UTC, tok.IssuedAt.Location())
		require.True(t, tok.IssuedAt.Equal(issued))
	})

	t.Run("missing user id", func(t *testing.T) {
		p := base
		p.UserID = ""
		_, err := domain.NewToken(p)
		require.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("missing client id", func(t *testing.T) {
		p := base
		p.ClientID = "  "
		_, err := domain.NewToken(p)
		require.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("missing access token", func(t *testing.T) {
		p := base
		p.AccessToken = ""
		_, err := domain.NewToken(p)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("non positive lifetime", func(t *testing.T) {
		p := base
		p.Lifetime = 0
		_, err := domain.NewToken(p)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestExpiresInTruncates(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tok := domain.Token{
		IssuedAt:  issued,
		ExpiresAt: issued.Add(90*time.Second + 900*time.Millisecond),
	}
	require.Equal(t, 90*time.Second, tok.ExpiresIn())
	require.Equal(t, int64(90), tok.ExpiresInSeconds())
}

func TestExpiresInIsTotalLifetime(t *testing.T) {
	t.Parallel()

	// Lifetimes longer than a day must not wrap.
	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tok := domain.Token{IssuedAt: issued, ExpiresAt: issued.Add(49 * time.Hour)}
	require.Equal(t, int64(49*60*60), tok.ExpiresInSeconds())
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tok := domain.Token{IssuedAt: issued, ExpiresAt: issued.Add(time.Hour)}

	require.False(t, tok.IsExpired(issued))
	require.False(t, tok.IsExpired(issued.Add(59*time.Minute)))
	require.True(t, tok.IsExpired(issued.Add(time.Hour)))
	require.True(t, tok.IsExpired(issued.Add(2*time.Hour)))
}
