package s3

import (
	"context"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
)

type userObject struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address,omitempty"`
}

type usersRepo struct {
	s *Store
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var obj userObject
	if err := r.s.getJSON(ctx, r.s.objectKey(usersDir, id), &obj); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: obj.ID, EmailAddress: obj.EmailAddress}, nil
}

func (r *usersRepo) PutUser(ctx context.Context, u domain.User) error {
	obj := userObject{ID: u.ID, EmailAddress: u.EmailAddress}
	return r.s.putJSON(ctx, r.s.objectKey(usersDir, u.ID), obj, false)
}
