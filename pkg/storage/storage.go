package storage

import (
	"context"
	"io"
)

// FileStorage stores uploaded bytes and returns a stable reference string.
// For the local provider the reference is a bare filename served from the
// public uploads path; for Cloudinary it is the secure URL.
type FileStorage interface {
	Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	Delete(ctx context.Context, ref string) error
}
