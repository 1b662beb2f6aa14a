package storage

import "io"

// BlobStore abstracts where uploaded document files live. Paths are opaque
// to callers; only the store interprets them.
type BlobStore interface {
	// Save persists the content and returns the blob path and written size.
	Save(content io.Reader, originalName string) (string, int64, error)

	// Open returns a reader for the blob at path.
	Open(path string) (io.ReadCloser, error)

	// Exists reports whether the blob at path is present.
	Exists(path string) bool

	// Delete removes the blob at path. Deleting a missing blob is not an error.
	Delete(path string) error
}
