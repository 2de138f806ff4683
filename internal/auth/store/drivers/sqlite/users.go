package sqlite

import (
	"context"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

type usersRepo struct {
	q dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.q.QueryRowContext(ctx, getUserByID, id).Scan(&u.ID, &u.EmailAddress)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) PutUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, putUser, u.ID, u.EmailAddress)
	return err
}
