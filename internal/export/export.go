// Package export writes record snapshots as CSV into object storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/storage"
)

const contentType = "text/csv"

// Source lists every record of one kind.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// WriteCSV writes a header of "id" followed by the resource field names,
// then one row per record.
func WriteCSV[T any](w io.Writer, res forms.Resource[T], records []T) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(res.Fields)+1)
	header = append(header, "id")
	for _, f := range res.Fields {
		header = append(header, f.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		values := res.Encode(rec)
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(res.ID(rec)))
		for _, f := range res.Fields {
			row = append(row, values.Get(f.Name))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Key is the object key of a snapshot of resource taken at at.
func Key(resource string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.csv", resource, at.UTC().Format("20060102T150405Z"))
}

// Result describes an uploaded snapshot.
type Result struct {
	Bucket  string
	Key     string
	Records int
	Bytes   int
}

// Snapshot uploads every record from src as one CSV object, creating the
// bucket first when it is missing.
func Snapshot[T any](ctx context.Context, dst storage.ObjectStorage, res forms.Resource[T], src Source[T], at time.Time) (Result, error) {
	records, err := src.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", res.Name, err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res, records); err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", res.Name, err)
	}

	if err := dst.EnsureBucket(ctx); err != nil {
		return Result{}, fmt.Errorf("ensure bucket %s: %w", dst.Bucket(), err)
	}

	key := Key(res.Name, at)
	size := buf.Len()
	err = dst.Put(ctx, storage.Upload{
		Key:         key,
		Body:        &buf,
		Size:        int64(size),
		ContentType: contentType,
		Metadata: map[string]string{
			storage.MetaResource: res.Name,
			storage.MetaRecords:  strconv.Itoa(len(records)),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", key, err)
	}

	return Result{Bucket: dst.Bucket(), Key: key, Records: len(records), Bytes: size}, nil
}
