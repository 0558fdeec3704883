// Package storage implements the image file lifecycle on a local directory.
// References handed to callers are bare file names; the directory layout is
// nobody else's business.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/api/metrics"
	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// allowedDeclared is the declared-content-type allow-list at the upload
// boundary. Sniffing below catches clients that lie about it.
var allowedDeclared = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
}

const tmpPattern = ".upload-*"

// DiskStore owns the upload directory.
type DiskStore struct {
	root     string
	maxBytes int64
	log      zerolog.Logger
}

// NewDiskStore creates the directory if needed and returns the store.
func NewDiskStore(root string, maxBytes int64, log zerolog.Logger) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: abs, maxBytes: maxBytes, log: log}, nil
}

// Root returns the absolute upload directory, for static serving and the
// orphan sweep.
func (d *DiskStore) Root() string {
	return d.root
}

// Store validates the upload and writes it under a collision-resistant name,
// via a temp file and rename so a crash never leaves a half-written file
// under a servable name. Returns the stable reference.
func (d *DiskStore) Store(_ context.Context, up ports.Upload) (string, error) {
	if _, ok := allowedDeclared[up.ContentType]; !ok {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrNotAnImage
	}

	buf, err := io.ReadAll(io.LimitReader(up.Reader, d.maxBytes+1))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > d.maxBytes {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrImageTooLarge
	}

	mt := mimetype.Detect(buf)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrNotAnImage
	}

	name := strconv.FormatInt(time.Now().UTC().Unix(), 10) + "-" + uuid.NewString() + mt.Extension()

	tmp, err := os.CreateTemp(d.root, tmpPattern)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.root, name)); err != nil {
		_ = os.Remove(tmp.Name())
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("store upload: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadSizeBytes.Observe(float64(len(buf)))
	d.log.Debug().Str("image_ref", name).Int("bytes", len(buf)).Msg("image stored")
	return name, nil
}

// Remove deletes the referenced file. An already-absent file is success.
func (d *DiskStore) Remove(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	// References are bare names; anything path-shaped is clamped to its base
	// so a crafted reference cannot reach outside the upload dir.
	name := filepath.Base(ref)
	if err := os.Remove(filepath.Join(d.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
