package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"maidhub/config"
	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the file object store: put an object, sign a read URL for it.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

type StorageService struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
	log    logger.Logger
}

// NewStorageService connects to the S3 compatible endpoint and ensures the
// bucket exists. Without an endpoint it returns a service whose calls fail
// with ErrUpstream.
func NewStorageService(ctx context.Context, config config.Config) (*StorageService, error) {
	log := logger.New("StorageService")
	service := &StorageService{
		bucket: config.StorageBucket,
		urlTTL: time.Duration(config.StorageURLTTLMinutes) * time.Minute,
		log:    log,
	}

	if service.urlTTL <= 0 {
		service.urlTTL = time.Hour
	}

	if config.StorageEndpoint == "" {
		log.Function("NewStorageService").Warn("STORAGE_ENDPOINT not set, file storage disabled")
		return service, nil
	}

	client, err := minio.New(config.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.StorageAccessKey, config.StorageSecretKey, ""),
		Secure: config.StorageUseSSL,
	})
	if err != nil {
		return nil, log.Err("failed to create storage client", err, "endpoint", config.StorageEndpoint)
	}

	exists, err := client.BucketExists(ctx, service.bucket)
	if err != nil {
		return nil, log.Err("failed to check bucket", err, "bucket", service.bucket)
	}

	if !exists {
		if err := client.MakeBucket(ctx, service.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, log.Err("failed to create bucket", err, "bucket", service.bucket)
		}
		log.Info("Created storage bucket", "bucket", service.bucket)
	}

	service.client = client
	return service, nil
}

func (s *StorageService) PutObject(
	ctx context.Context,
	key string,
	body io.Reader,
	size int64,
	contentType string,
) error {
	log := s.log.Function("PutObject")

	if s.client == nil {
		return errStorageDisabled()
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return ierr.WithError(log.Err("failed to upload object", err, "key", key)).
			WithHint("File upload failed").
			Mark(ierr.ErrUpstream)
	}

	return nil
}

func (s *StorageService) SignedURL(ctx context.Context, key string) (string, error) {
	log := s.log.Function("SignedURL")

	if s.client == nil {
		return "", errStorageDisabled()
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, nil)
	if err != nil {
		return "", ierr.WithError(log.Err("failed to sign object url", err, "key", key)).
			WithHint("File link could not be created").
			Mark(ierr.ErrUpstream)
	}

	return url.String(), nil
}

func (s *StorageService) RemoveObject(ctx context.Context, key string) error {
	log := s.log.Function("RemoveObject")

	if s.client == nil {
		return errStorageDisabled()
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return ierr.WithError(log.Err("failed to remove object", err, "key", key)).
			WithHint("File could not be removed").
			Mark(ierr.ErrUpstream)
	}

	return nil
}

// NewObjectKey returns a fresh key under the owner's prefix, e.g.
// users/<ownerId>/<uuid>.pdf.
func NewObjectKey(ownerID uuid.UUID, extension string) string {
	extension = strings.ToLower(strings.TrimSpace(extension))
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return fmt.Sprintf("users/%s/%s%s", ownerID, uuid.New(), extension)
}

func errStorageDisabled() error {
	return ierr.NewError("storage client not configured").
		WithHint("File storage is not available").
		Mark(ierr.ErrUpstream)
}
