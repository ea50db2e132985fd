// Package archive stores raw email bodies so transactions stay auditable
// after the mailbox prunes them. The backing store is a GCS bucket; when
// no bucket is configured archival is a no-op and sync carries on.
package archive

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// Archiver persists raw email content keyed by bank and email ID.
type Archiver interface {
	Save(ctx context.Context, bankID, emailID string, content []byte) error
	Load(ctx context.Context, bankID, emailID string) ([]byte, error)
}

// GCSArchive writes email bodies to a GCS bucket.
type GCSArchive struct {
	bucket *storage.BucketHandle
}

// NewGCSArchive wraps an existing bucket handle.
func NewGCSArchive(bucket *storage.BucketHandle) *GCSArchive {
	return &GCSArchive{bucket: bucket}
}

// objectPath keeps one object per email, grouped by bank for manual
// browsing in the console.
func objectPath(bankID, emailID string) string {
	return fmt.Sprintf("emails/%s/%s.html", bankID, emailID)
}

// Save writes the raw email body. Re-saving the same email overwrites the
// previous object, which keeps retries idempotent.
func (a *GCSArchive) Save(ctx context.Context, bankID, emailID string, content []byte) error {
	w := a.bucket.Object(objectPath(bankID, emailID)).NewWriter(ctx)
	w.ContentType = "text/html; charset=utf-8"
	if _, err := w.Write(content); err != nil {
		w.Close()
		return fmt.Errorf("failed to write email archive: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize email archive: %w", err)
	}
	return nil
}

// Load reads a previously archived email body.
func (a *GCSArchive) Load(ctx context.Context, bankID, emailID string) ([]byte, error) {
	r, err := a.bucket.Object(objectPath(bankID, emailID)).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open email archive: %w", err)
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read email archive: %w", err)
	}
	return content, nil
}

// Noop discards saves and reports loads as missing. Used when no archive
// bucket is configured.
type Noop struct{}

func (Noop) Save(ctx context.Context, bankID, emailID string, content []byte) error {
	return nil
}

func (Noop) Load(ctx context.Context, bankID, emailID string) ([]byte, error) {
	return nil, fmt.Errorf("email archive not configured")
}
