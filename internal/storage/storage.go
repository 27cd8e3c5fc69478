// Package storage uploads export snapshots to an object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/poseidon-capital/console/config"
)

const (
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

// Metadata keys attached to every snapshot object.
const (
	MetaResource = "poseidon-resource"
	MetaRecords  = "poseidon-records"
)

// Upload is one object to store. Size must match the length of Body.
type Upload struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Filename is the base name offered to browsers downloading the object.
func (u Upload) Filename() string {
	return path.Base(u.Key)
}

// Object describes a stored snapshot.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the bucket the export command writes into.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, u Upload) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Bucket() string
	Close() error
}

// Open connects the backend selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg config.Config) (ObjectStorage, error) {
	switch cfg.Storage.Backend {
	case "", BackendMinio:
		return NewMinioStore(cfg.Minio)
	case BackendGCS:
		return NewGCSStore(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
