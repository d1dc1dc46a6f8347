// Package storage provides the object store client used by the ingestion
// pipeline and the HTTP collaborators. The production implementation talks
// to an S3-compatible backend.
package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/photoshare/internal/server/models"
)

// ObjectStore is read/write access to binary blobs addressed by
// (bucket, key).
type ObjectStore interface {
	// Get returns the object's bytes together with its content type and
	// attached user metadata.
	Get(ctx context.Context, bucket, key string) (*models.Object, error)

	// Put writes body under (bucket, key), overwriting any existing object.
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error

	// List returns all object keys in the bucket.
	List(ctx context.Context, bucket string) ([]string, error)

	// PresignPut issues a time-limited URL allowing a client to PUT an
	// object with the given content type.
	PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error)
}
