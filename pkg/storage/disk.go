// Package storage is a small filesystem abstraction for uploaded files
// (product images). Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	storage.Connect(ctx)
//	err := storage.Default().Put(ctx, "shirts/7/front.jpg", r, "image/jpeg")
//	url := storage.Default().URL("shirts/7/front.jpg")
package storage

import (
	"context"
	"io"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
