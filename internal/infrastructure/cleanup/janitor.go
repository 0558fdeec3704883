// Package cleanup recovers orphaned image files: files that were stored but
// whose owning record write failed, or whose delete was skipped on an error
// path. An orphaned file is a tolerated, transient defect; the janitor makes
// sure it stays transient.
package cleanup

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/api/metrics"
	"github.com/minutemart/storefront/internal/core/ports"
)

const queueBuffer = 256

// Janitor deletes known orphans from a channel and periodically sweeps the
// upload directory for unreferenced files old enough to not be mid-request.
type Janitor struct {
	queue    chan string
	files    ports.FileStore
	products ports.ProductRepository
	root     string
	interval time.Duration
	minAge   time.Duration
	log      zerolog.Logger
}

func NewJanitor(files ports.FileStore, products ports.ProductRepository, root string, interval, minAge time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	if minAge <= 0 {
		minAge = time.Hour
	}
	return &Janitor{
		queue:    make(chan string, queueBuffer),
		files:    files,
		products: products,
		root:     root,
		interval: interval,
		minAge:   minAge,
		log:      log,
	}
}

// Start launches the drain and sweep goroutines. Both stop when ctx is
// cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go j.drain(ctx)
	go j.sweepLoop(ctx)
}

// Enqueue hands over a known orphan. Never blocks the request path: when the
// queue is full the file is left for the next sweep.
func (j *Janitor) Enqueue(ref string) {
	select {
	case j.queue <- ref:
	default:
		j.log.Warn().Str("image_ref", ref).Msg("janitor queue full, deferring to sweep")
	}
}

func (j *Janitor) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ref := <-j.queue:
			if err := j.files.Remove(ctx, ref); err != nil {
				j.log.Warn().Err(err).Str("image_ref", ref).Msg("orphan delete failed")
				continue
			}
			metrics.OrphanFilesSweptTotal.Inc()
			j.log.Info().Str("image_ref", ref).Msg("orphan file removed")
		}
	}
}

func (j *Janitor) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.sweep(ctx); err != nil {
				j.log.Error().Err(err).Msg("orphan sweep failed")
			}
		}
	}
}

// sweep removes files in the upload dir that no product references and that
// are older than minAge. The age gate keeps the sweep from racing an upload
// whose record write has not committed yet.
func (j *Janitor) sweep(ctx context.Context) error {
	refs, err := j.products.ListImageRefs(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		referenced[r] = struct{}{}
	}

	entries, err := os.ReadDir(j.root)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-j.minAge)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := j.files.Remove(ctx, entry.Name()); err != nil {
			j.log.Warn().Err(err).Str("image_ref", entry.Name()).Msg("sweep delete failed")
			continue
		}
		metrics.OrphanFilesSweptTotal.Inc()
		j.log.Info().Str("image_ref", entry.Name()).Msg("swept orphan file")
	}
	return nil
}
