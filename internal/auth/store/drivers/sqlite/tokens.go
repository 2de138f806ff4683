package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

type tokensRepo struct {
	q dbtx
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	_, err := r.q.ExecContext(ctx, createToken,
		t.ID,
		t.UserID,
		t.ClientID,
		t.AccessToken,
		mapStringNull(t.RefreshToken),
		toUnixNano(t.IssuedAt),
		toUnixNano(t.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *tokensRepo) GetTokenByID(ctx context.Context, id string) (domain.Token, error) {
	var row tokenRow
	err := r.q.QueryRowContext(ctx, getTokenByID, id).Scan(
		&row.ID,
		&row.UserID,
		&row.ClientID,
		&row.AccessToken,
		&row.RefreshToken,
		&row.IssuedAt,
		&row.ExpiresAt,
	)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return mapToken(row), nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, deleteExpiredTokens, toUnixNano(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
