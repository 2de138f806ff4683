package s3

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

type tokenObject struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ClientID     string    `json:"client_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type tokensRepo struct {
	s *Store
}

// CreateToken writes the token object exclusively and then its expiry index
// entry. If the index write fails the token is still readable but will not be
// swept; the error is returned so the caller can retry with a fresh id.
func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	obj := tokenObject{
		ID:           t.ID,
		UserID:       t.UserID,
		ClientID:     t.ClientID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		IssuedAt:     t.IssuedAt.UTC(),
		ExpiresAt:    t.ExpiresAt.UTC(),
	}
	if err := r.s.putJSON(ctx, r.s.objectKey(tokensDir, t.ID), obj, true); err != nil {
		return err
	}
	if err := r.s.putJSON(ctx, r.s.expiryKey(t.ExpiresAt, t.ID), struct{}{}, false); err != nil {
		slogx.FromContext(ctx).Warn("token stored without expiry index entry", "error", err, "token_id", t.ID)
		return err
	}
	return nil
}

func (r *tokensRepo) GetTokenByID(ctx context.Context, id string) (domain.Token, error) {
	var obj tokenObject
	if err := r.s.getJSON(ctx, r.s.objectKey(tokensDir, id), &obj); err != nil {
		return domain.Token{}, err
	}
	return domain.Token{
		ID:           obj.ID,
		UserID:       obj.UserID,
		ClientID:     obj.ClientID,
		AccessToken:  obj.AccessToken,
		RefreshToken: obj.RefreshToken,
		IssuedAt:     obj.IssuedAt.UTC(),
		ExpiresAt:    obj.ExpiresAt.UTC(),
	}, nil
}

// DeleteExpiredTokens walks the expiry index in key order, which is expiry
// order, and stops at the first entry after before.
func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	prefix := r.s.withPrefix(expiryDir) + "/"
	cutoff := before.UTC().UnixNano()

	var (
		deleted int64
		token   *string
	)
	for {
		listCtx, cancel := withTimeout(ctx)
		resp, err := r.s.client.ListObjectsV2(listCtx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.s.cfg.Bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		cancel()
		if err != nil {
			return deleted, fmt.Errorf("s3: list expiry index: %w", err)
		}

		for _, object := range resp.Contents {
			key := aws.ToString(object.Key)
			expiresAt, id, err := parseExpiryKey(strings.TrimPrefix(key, prefix))
			if err != nil {
				slogx.FromContext(ctx).Warn("skipping malformed expiry index entry", "key", key, "error", err)
				continue
			}
			if expiresAt > cutoff {
				return deleted, nil
			}
			if err := r.s.deleteObject(ctx, r.s.objectKey(tokensDir, id)); err != nil {
				return deleted, err
			}
			if err := r.s.deleteObject(ctx, key); err != nil {
				return deleted, err
			}
			deleted++
		}

		if !aws.ToBool(resp.IsTruncated) {
			return deleted, nil
		}
		token = resp.NextContinuationToken
	}
}

// expiryKey zero-pads the expiry so lexical key order matches time order.
func (s *Store) expiryKey(expiresAt time.Time, id string) string {
	return s.withPrefix(path.Join(expiryDir, fmt.Sprintf("%020d", expiresAt.UTC().UnixNano()), url.PathEscape(id)))
}

// parseExpiryKey splits a key relative to the expiry index prefix into the
// expiry in unix nanoseconds and the unescaped token id.
func parseExpiryKey(rel string) (int64, string, error) {
	stamp, escaped, ok := strings.Cut(rel, "/")
	if !ok || escaped == "" {
		return 0, "", fmt.Errorf("expiry key %q: missing token id", rel)
	}
	ns, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("expiry key %q: %w", rel, err)
	}
	id, err := url.PathUnescape(escaped)
	if err != nil {
		return 0, "", fmt.Errorf("expiry key %q: %w", rel, err)
	}
	return ns, id, nil
}
