package repositories

import "context"

// BlobStore stores public files such as profile pictures
type BlobStore interface {
	// Upload stores data at path and returns its public URL
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)

	// Delete removes the object behind a public URL previously returned by Upload
	Delete(ctx context.Context, publicURL string) error
}
