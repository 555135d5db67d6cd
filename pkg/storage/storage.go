// Package storage persists uploaded documents and hands back the reference
// path stored on the provider profile.
package storage

import (
	"context"
	"io"
)

// FileStore saves objects under a flat key space.
type FileStore interface {
	// Put stores r under key and returns the path clients use to fetch it.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
