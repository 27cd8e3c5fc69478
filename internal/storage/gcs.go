package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/poseidon-capital/console/config"
)

// GCSStore keeps snapshots in one Google Cloud Storage bucket.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	projectID string
}

// NewGCSStore builds a client from an explicit credentials file, or from
// application default credentials when none is configured.
func NewGCSStore(ctx context.Context, cfg config.GCSConfig) (*GCSStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, projectID: strings.TrimSpace(cfg.ProjectID)}, nil
}

// EnsureBucket creates the bucket when missing. Creation needs a project id.
func (g *GCSStore) EnsureBucket(ctx context.Context) error {
	bucket := g.client.Bucket(g.bucket)
	_, err := bucket.Attrs(ctx)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, storage.ErrBucketNotExist):
		return err
	case g.projectID == "":
		return fmt.Errorf("bucket %s does not exist and no gcs project id is configured", g.bucket)
	}
	return bucket.Create(ctx, g.projectID, nil)
}

// Put streams u into a new object generation. The write is discarded when
// copying fails.
func (g *GCSStore) Put(ctx context.Context, u Upload) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(u.Key).NewWriter(ctx)
	w.ContentType = u.ContentType
	w.ContentDisposition = fmt.Sprintf("attachment; filename=%q", u.Filename())
	w.Metadata = u.Metadata

	if _, err := io.CopyN(w, u.Body, u.Size); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("write %s: %w", u.Key, err)
	}
	return w.Close()
}

// List returns the objects under prefix in key order.
func (g *GCSStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, Object{Key: attrs.Name, Size: attrs.Size, LastModified: attrs.Updated})
	}
	slices.SortFunc(objects, func(a, b Object) int { return strings.Compare(a.Key, b.Key) })
	return objects, nil
}

func (g *GCSStore) Bucket() string {
	return g.bucket
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}
