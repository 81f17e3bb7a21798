// Package storage abstracts the S3-compatible object store that holds
// uploaded document content. Implementations stream all I/O and never touch
// local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions carries optional parameters for an upload. Size must be
// the exact byte count when known; pass -1 to let the backend chunk the
// stream itself.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store the document service writes uploads to and
// serves downloads from.
type Storage interface {
	// Put uploads the reader's content under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens an object for streaming alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object without
	// credentials. A non-empty downloadName forces an attachment download
	// under that file name.
	PresignGet(ctx context.Context, key string, expiry time.Duration, downloadName string) (string, error)
}
