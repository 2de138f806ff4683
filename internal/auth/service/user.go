package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidUser  = errors.New("invalid user")
)

type UserService struct {
	Store store.Store
}

// PutUser creates or updates a user provisioned by an identity source.
func (s *UserService) PutUser(ctx context.Context, u domain.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrInvalidUser
	}
	if err := s.Store.Users().PutUser(ctx, u); err != nil {
		slogx.FromContext(ctx).Error("failed to store user", "error", err, "user_id", u.ID)
		return err
	}
	return nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
