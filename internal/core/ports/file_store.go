package ports

import (
	"context"
	"io"
)

// Upload is one file received at the transport boundary.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// FileStore owns uploaded image files. References are opaque to callers:
// write once, serve by reference, delete by reference.
type FileStore interface {
	// Store validates the upload against the image allow-list and writes it
	// under a collision-resistant name, returning the stable reference. A
	// rejected or failed store leaves no file behind.
	Store(ctx context.Context, up Upload) (string, error)

	// Remove deletes the referenced file. A file that is already absent is
	// success: the goal is "file does not exist".
	Remove(ctx context.Context, ref string) error
}

// OrphanSink accepts file references whose owning record write failed after
// the file was stored. Enqueue never blocks the request path.
type OrphanSink interface {
	Enqueue(ref string)
}
