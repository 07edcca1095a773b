// Package objectstore persists the photo bytes. The production
// implementation is MinIO; an in-memory implementation backs tests and
// development without an object store.
package objectstore

import (
	"context"
	"io"
)

// Store writes photo objects and returns their public URL.
type Store interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}
