// Package storage uploads collection exports to an S3-compatible object store.
// Uploads are streamed from the caller's reader; nothing is staged on local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// UnknownSize marks an upload whose length is only known once the reader hits EOF.
const UnknownSize int64 = -1

// PutObjectOptions describe one upload.
type PutObjectOptions struct {
	// Size is the exact byte count, or UnknownSize for a stream.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is what the store reports back after an upload.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is the export sink.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a download link that needs no credentials until expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
