package ports

import (
	"context"
	"io"
)

// ObjectStorage uploads shareable artifacts and returns their URL.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}
