package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/poseidon-capital/console/config"
)

// MinioStore keeps snapshots in one bucket of a MinIO or S3-compatible server.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore checks cfg and builds the SDK client. No request is made
// until the first call.
func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	var problems []error
	if strings.TrimSpace(cfg.Endpoint) == "" {
		problems = append(problems, errors.New("minio endpoint is required"))
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		problems = append(problems, errors.New("minio access key and secret key are required"))
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		problems = append(problems, errors.New("minio bucket is required"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil || exists {
		return err
	}
	err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	// Another exporter may have created it in the meantime.
	if err != nil && minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
		return nil
	}
	return err
}

func (m *MinioStore) Put(ctx context.Context, u Upload) error {
	_, err := m.client.PutObject(ctx, m.bucket, u.Key, u.Body, u.Size, minio.PutObjectOptions{
		ContentType:        u.ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", u.Filename()),
		UserMetadata:       u.Metadata,
	})
	return err
}

// List returns the objects under prefix in key order.
func (m *MinioStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for info := range m.client.ListObjects(ctx, m.bucket, opts) {
		if info.Err != nil {
			return nil, info.Err
		}
		objects = append(objects, Object{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
	}
	return objects, nil
}

func (m *MinioStore) Bucket() string {
	return m.bucket
}

// Close is a no-op; the SDK client keeps no connection open between calls.
func (m *MinioStore) Close() error {
	return nil
}
