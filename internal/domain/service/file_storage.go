package service

import (
	"context"
	"io"
)

// FileStorage defines the interface for storing uploaded binary objects
// such as product images, Aadhaar scans and generated QR codes.
type FileStorage interface {
	// Save writes the object under a key derived from the given file
	// name and returns the public URL it will be served from.
	Save(ctx context.Context, fileName, contentType string, content io.Reader) (url string, err error)

	// Delete removes a previously stored object by its public URL.
	// Deleting an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
}
