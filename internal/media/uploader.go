package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/otramalaga/civicmap/internal/config"
	"github.com/otramalaga/civicmap/internal/logger"
)

// ErrUnsupportedType rejects uploads outside the image/video allow-list.
var ErrUnsupportedType = errors.New("unsupported media type")

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"video/mp4":  {},
	"video/webm": {},
}

// Uploader stores media in an S3-compatible bucket and hands back public
// URLs. Cancelling the request context aborts the transfer mid-flight.
type Uploader struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	logger         logger.Logger
	now            func() time.Time
}

// NewUploader builds the uploader from the media configuration.
func NewUploader(cfg *config.Config, log logger.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.MediaEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: cfg.MediaUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create media client: %w", err)
	}

	public := strings.TrimSuffix(strings.TrimSpace(cfg.MediaPublicEndpoint), "/")
	if public == "" {
		public = cfg.MediaEndpoint
	}

	return &Uploader{
		client:         client,
		bucket:         cfg.MediaBucket,
		publicEndpoint: public,
		logger:         log,
		now:            time.Now,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet and opens it
// for public reads.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", u.bucket, err)
	}
	if exists {
		return nil
	}

	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", u.bucket, err)
	}

	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Action":["s3:GetObject"],"Effect":"Allow","Principal":{"AWS":["*"]},"Resource":["arn:aws:s3:::%s/*"]}]}`, u.bucket)
	if err := u.client.SetBucketPolicy(ctx, u.bucket, policy); err != nil {
		u.logger.Warn("failed to open bucket for public reads", logger.Error(err))
	}

	u.logger.Info("media bucket created", logger.String("bucket", u.bucket))
	return nil
}

// Upload streams one file into the bucket and returns its public URL.
// A cancelled context aborts the transfer; nothing is kept.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if _, ok := allowedTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	key := u.objectKey(filename)
	if _, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		if ctx.Err() != nil {
			u.logger.Debug("upload aborted", logger.String("key", key))
			return "", ctx.Err()
		}
		return "", fmt.Errorf("upload %q: %w", filename, err)
	}

	publicURL := u.PublicURL(key)
	u.logger.Info("media uploaded",
		logger.String("key", key),
		logger.String("content_type", contentType),
		logger.Int64("bytes", size))
	return publicURL, nil
}

// Remove deletes a previously uploaded object by its public URL.
func (u *Uploader) Remove(ctx context.Context, publicURL string) error {
	key := u.keyFromURL(publicURL)
	if key == "" {
		return fmt.Errorf("no object key in %q", publicURL)
	}
	if err := u.client.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (u *Uploader) HealthCheck(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("media storage unreachable: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q missing", u.bucket)
	}
	return nil
}

// PublicURL derives the browser-facing URL for an object key.
func (u *Uploader) PublicURL(key string) string {
	if strings.Contains(u.publicEndpoint, "://") {
		return fmt.Sprintf("%s/%s/%s", u.publicEndpoint, u.bucket, key)
	}
	return fmt.Sprintf("https://%s/%s/%s", u.publicEndpoint, u.bucket, key)
}

// objectKey namespaces uploads by date and randomizes the name, keeping the
// original extension.
func (u *Uploader) objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("uploads/%s/%s%s", u.now().Format("2006-01-02"), uuid.NewString(), ext)
}

func (u *Uploader) keyFromURL(publicURL string) string {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(parsed.Path, "/")
	prefix := u.bucket + "/"
	if idx := strings.LastIndex(path, prefix); idx != -1 {
		return path[idx+len(prefix):]
	}
	return path
}
