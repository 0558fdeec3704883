package cleanup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/infrastructure/storage"
)

// refLister satisfies ports.ProductRepository for the sweep, which only
// consults the referenced-image set.
type refLister struct {
	refs []string
}

func (r *refLister) Create(context.Context, *domain.Product) (*domain.Product, error) {
	return nil, nil
}
func (r *refLister) FindByID(context.Context, string) (*domain.Product, error) { return nil, nil }
func (r *refLister) FindByOwner(context.Context, string) ([]domain.Product, error) {
	return nil, nil
}
func (r *refLister) FindPage(context.Context, int64, int64) ([]domain.Product, int64, error) {
	return nil, 0, nil
}
func (r *refLister) Update(context.Context, *domain.Product) error { return nil }
func (r *refLister) Delete(context.Context, string) error          { return nil }
func (r *refLister) ListImageRefs(context.Context) ([]string, error) {
	return r.refs, nil
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0}, 32)...)

func TestJanitor_SweepRemovesOldUnreferenced(t *testing.T) {
	files, err := storage.NewDiskStore(t.TempDir(), 1<<20, zerolog.Nop())
	require.NoError(t, err)

	referenced := writeFile(t, files.Root(), "kept.png")
	orphaned := writeFile(t, files.Root(), "orphan.png")
	fresh := writeFile(t, files.Root(), "fresh.png")

	// Age everything except the freshly uploaded file past the grace window.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(referenced, old, old))
	require.NoError(t, os.Chtimes(orphaned, old, old))

	j := NewJanitor(files, &refLister{refs: []string{"kept.png"}}, files.Root(), time.Hour, time.Hour, zerolog.Nop())
	require.NoError(t, j.sweep(context.Background()))

	assert.FileExists(t, referenced, "referenced files must never be swept")
	assert.NoFileExists(t, orphaned, "old unreferenced files must be swept")
	assert.FileExists(t, fresh, "recent files may still be mid-request and must be spared")
}

func TestJanitor_SweepSkipsDotFilesAndDirs(t *testing.T) {
	files, err := storage.NewDiskStore(t.TempDir(), 1<<20, zerolog.Nop())
	require.NoError(t, err)

	tmpUpload := writeFile(t, files.Root(), ".upload-123")
	require.NoError(t, os.Mkdir(filepath.Join(files.Root(), "subdir"), 0o755))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(tmpUpload, old, old))

	j := NewJanitor(files, &refLister{}, files.Root(), time.Hour, time.Hour, zerolog.Nop())
	require.NoError(t, j.sweep(context.Background()))

	assert.FileExists(t, tmpUpload)
	assert.DirExists(t, filepath.Join(files.Root(), "subdir"))
}

func TestJanitor_EnqueueDrains(t *testing.T) {
	files, err := storage.NewDiskStore(t.TempDir(), 1<<20, zerolog.Nop())
	require.NoError(t, err)

	orphan := writeFile(t, files.Root(), "handed-over.png")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := NewJanitor(files, &refLister{}, files.Root(), time.Hour, time.Hour, zerolog.Nop())
	j.Start(ctx)
	j.Enqueue("handed-over.png")

	require.Eventually(t, func() bool {
		_, err := os.Stat(orphan)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond, "queued orphan must be removed by the drain goroutine")
}

func TestJanitor_EnqueueNeverBlocks(t *testing.T) {
	files, err := storage.NewDiskStore(t.TempDir(), 1<<20, zerolog.Nop())
	require.NoError(t, err)

	// Not started: the queue fills up and further hand-overs are dropped
	// to the next sweep instead of blocking the caller.
	j := NewJanitor(files, &refLister{}, files.Root(), time.Hour, time.Hour, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueBuffer+10; i++ {
			j.Enqueue("whatever.png")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue must never block the request path")
	}
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pngBytes, 0o644))
	return path
}
