// Package blob stores public files such as profile pictures.
package blob

import (
	"context"
	"fmt"

	"beanthere/internal/supabase"
)

// SupabaseStore keeps objects in a Supabase Storage bucket.
type SupabaseStore struct {
	bucket *supabase.BucketClient
}

// NewSupabaseStore creates a store over bucket.
func NewSupabaseStore(client *supabase.Client, bucket string) *SupabaseStore {
	return &SupabaseStore{bucket: client.Storage().From(bucket)}
}

// Upload stores data at path and returns its public URL.
func (s *SupabaseStore) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if err := s.bucket.Upload(ctx, path, data, contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.bucket.PublicURL(path), nil
}

// Delete removes the object behind publicURL. URLs outside the bucket are
// ignored.
func (s *SupabaseStore) Delete(ctx context.Context, publicURL string) error {
	path, ok := s.bucket.PathFromPublicURL(publicURL)
	if !ok {
		return nil
	}
	if err := s.bucket.Delete(ctx, []string{path}); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
