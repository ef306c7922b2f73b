package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStorage persists uploaded evidence under relative keys.
type FileStorage interface {
	// Upload writes file under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
	// Download opens a stored key. Missing keys yield ErrNotFound.
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public address a stored key is served from.
	URL(path string) string
	Exists(ctx context.Context, path string) (bool, error)
}
