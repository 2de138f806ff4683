package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithy "github.com/aws/smithy-go"

	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
)

var _ store.Store = (*Store)(nil)

// Config controls the S3 storage backend.
type Config struct {
	Endpoint         string
	Region           string
	Bucket           string
	Prefix           string
	AccessKeyID      string
	SecretAccessKey  string
	UsePathStyle     bool
	MaxRetryAttempts int
}

// Store keeps every record as a JSON object under a per-kind prefix of a
// single bucket. Token ids are additionally indexed by expiry so expired
// tokens can be swept without reading every token object.
type Store struct {
	client *s3.Client
	cfg    Config
}

const (
	opTimeout = 30 * time.Second

	usersDir   = "users"
	clientsDir = "clients"
	tokensDir  = "tokens"
	expiryDir  = "tokens-by-expiry"

	contentType = "application/json"
)

// New constructs a Store using the provided configuration.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3: region is required")
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.MaxRetryAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetryAttempts))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.Contains(endpoint, "://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Store{client: client, cfg: cfg}, nil
}

// Close is a no-op for the AWS client.
func (s *Store) Close() error { return nil }

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	if err != nil {
		return fmt.Errorf("s3: head bucket: %w", err)
	}
	return nil
}

// ApplyMigrations creates the bucket when it does not exist yet. Objects carry
// no schema, so there is nothing else to migrate.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := withTimeout(context.Background())
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("s3: head bucket: %w", err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.cfg.Bucket)}
	if s.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("s3: create bucket: %w", err)
	}
	return nil
}

func (s *Store) Users() store.Users     { return &usersRepo{s: s} }
func (s *Store) Clients() store.Clients { return &clientsRepo{s: s} }
func (s *Store) Tokens() store.Tokens   { return &tokensRepo{s: s} }

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= opTimeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, opTimeout)
}

// objectKey builds the object key for id under dir. Ids are path-escaped so a
// "/" inside an id cannot escape its directory.
func (s *Store) objectKey(dir, id string) string {
	return s.withPrefix(path.Join(dir, url.PathEscape(id)+".json"))
}

func (s *Store) withPrefix(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return s.cfg.Prefix + "/" + key
}

// getJSON loads the object at key into v.
func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("s3: get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("s3: read %s: %w", key, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("s3: decode %s: %w", key, err)
	}
	return nil
}

// putJSON writes v to key. With exclusive set the write only succeeds when no
// object exists at key yet; a lost race is reported as store.ErrAlreadyExists.
func (s *Store) putJSON(ctx context.Context, key string, v any, exclusive bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3: encode %s: %w", key, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	}
	if exclusive {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		if exclusive && isPreconditionFailed(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteObject(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3: delete %s: %w", key, err)
	}
	return nil
}

func httpStatusCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode(), true
	}
	return 0, false
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	if status, ok := httpStatusCode(err); ok {
		return status == http.StatusNotFound
	}
	return false
}

func isPreconditionFailed(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	if status, ok := httpStatusCode(err); ok {
		return status == http.StatusPreconditionFailed || status == http.StatusConflict
	}
	return false
}
