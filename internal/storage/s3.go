package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
)

const presignCachePrefix = "presign:"

type Config struct {
	URL        string
	AccessKey  string
	SecretKey  string
	Region     string
	PresignTTL time.Duration
}

type objectWriter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store keeps attachments in an S3 compatible bucket addressed path-style.
type S3Store struct {
	baseURL   string
	ttl       time.Duration
	client    objectWriter
	presigner objectPresigner
	cache     redis.Cmdable
	logger    *slog.Logger
}

func NewS3Store(ctx context.Context, cfg Config, cache redis.Cmdable, logger *slog.Logger) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.URL != "" {
			o.BaseEndpoint = aws.String(cfg.URL)
		}
		o.UsePathStyle = true
	})

	return newS3Store(cfg, client, s3.NewPresignClient(client), cache, logger), nil
}

func newS3Store(cfg Config, client objectWriter, presigner objectPresigner, cache redis.Cmdable, logger *slog.Logger) *S3Store {
	return &S3Store{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		ttl:       cfg.PresignTTL,
		client:    client,
		presigner: presigner,
		cache:     cache,
		logger:    logger.With("component", "storage.S3Store"),
	}
}

// Upload stores body at folder/filename and returns its path-style URL.
func (s *S3Store) Upload(ctx context.Context, bucket, folder, filename string, body io.Reader, contentType string) (string, error) {
	key := strings.Trim(folder, "/") + "/" + filename
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Info("object uploaded", "bucket", bucket, "key", key)
	return s.baseURL + "/" + bucket + "/" + key, nil
}

// Delete removes the object behind a stored URL. URLs outside bucket are
// ignored.
func (s *S3Store) Delete(ctx context.Context, storedURL, bucket string) error {
	key, ok := ObjectKey(storedURL, bucket)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, presignCachePrefix+storedURL)
	}
	s.logger.Info("object deleted", "bucket", bucket, "key", key)
	return nil
}

// PresignURL turns a stored URL into a time-limited GET link. URLs that do
// not point into bucket come back unchanged, as does any URL the signer
// rejects.
func (s *S3Store) PresignURL(ctx context.Context, storedURL, bucket string) string {
	key, ok := ObjectKey(storedURL, bucket)
	if !ok {
		return storedURL
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, presignCachePrefix+storedURL).Result(); err == nil {
			return cached
		}
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		s.logger.Warn("presign failed", "url", storedURL, "error", err)
		return storedURL
	}

	if s.cache != nil {
		// Cached links expire before the signature does.
		if err := s.cache.Set(ctx, presignCachePrefix+storedURL, req.URL, s.ttl*9/10).Err(); err != nil {
			s.logger.Warn("presign cache write failed", "error", err)
		}
	}
	return req.URL
}

// ObjectKey extracts the key from a path-style URL whose first path segment
// is bucket.
func ObjectKey(storedURL, bucket string) (string, bool) {
	u, err := url.Parse(storedURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
