package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Resolver turns a stored image key into a URL clients can fetch.
type Resolver interface {
	URL(key string) string
}

// Storage saves and removes product images. Besides the local filesystem
// implementation it can be swapped for an object store.
type Storage interface {
	Resolver

	// Save writes data under key (e.g. "products/<uuid>.jpg").
	Save(ctx context.Context, key string, data io.Reader, contentType string) error

	// Delete removes the file stored under key. Missing files are not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a collision-free key under dir keeping the extension of
// the original file name.
func NewKey(dir, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	return path.Join(dir, uuid.NewString()+ext)
}
