package storage

import (
	"context"
	"time"
)

// Default expiry for presigned URLs handed to the mobile client.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations. The
// server never proxies clip bytes; players upload and stream directly
// against presigned URLs.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL allowing a PUT
	// of one object. The client must send the same Content-Type header
	// the URL was signed with.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL allowing a GET
	// of one object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject returns the stored size of an object, or an error if it
	// does not exist yet.
	StatObject(ctx context.Context, objectKey string) (int64, error)

	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, objectKey string) error
}
