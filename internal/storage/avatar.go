package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/saulo-duarte/interviewace-api/internal/config"
)

const avatarPrefix = "profile_pictures"

var ErrNotConfigured = errors.New("object storage not configured")

// AvatarStore keeps profile pictures in an S3 compatible bucket.
type AvatarStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewAvatarStore(ctx context.Context, cfg config.MinIOConfig) (*AvatarStore, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &AvatarStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBaseURL(cfg),
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AvatarStore) ensureBucket(ctx context.Context) error {
	log := config.WithContext(ctx).WithField("bucket", s.bucket)

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	log.Info("creating avatar bucket")
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores the image under a fresh key and returns its public URL and key.
func (s *AvatarStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, string, error) {
	key := ObjectKey(uuid.New(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return ObjectURL(s.publicURL, s.bucket, key), key, nil
}

func (s *AvatarStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ObjectKey builds profile_pictures/<id><ext>, with ext normalized to a
// lower-case dotted suffix.
func ObjectKey(id uuid.UUID, ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(avatarPrefix, id.String()+ext)
}

func ObjectURL(base, bucket, key string) string {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
	}
	u.Path = path.Join(u.Path, bucket, key)
	return u.String()
}

func publicBaseURL(cfg config.MinIOConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}
