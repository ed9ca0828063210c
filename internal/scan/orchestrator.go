// Package scan drives the indexing pipeline: crawl configured locations,
// parse discovered Live sets in bounded batches, merge with existing
// catalog entries so user annotations survive, and persist batch by batch.
package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/setscout/setscout/internal/als"
	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/crawler"
	apperrors "github.com/setscout/setscout/internal/errors"
)

const (
	// DefaultBatchSize bounds concurrent in-flight parses and peak
	// memory, each decoded document can be tens of megabytes.
	DefaultBatchSize = 10

	// DefaultCacheSize is the number of parsed results kept keyed by
	// content hash. A re-scan of unchanged files skips decompression
	// entirely.
	DefaultCacheSize = 256
)

// Options configures an Orchestrator.
type Options struct {
	Store     catalog.Store
	Crawler   *crawler.Crawler
	BatchSize int
	CacheSize int
	// LockDir holds the cross-process scan lock. Empty disables locking,
	// used by tests.
	LockDir  string
	Progress ProgressFunc
}

// Orchestrator runs scans. One scan at a time per process; the file lock
// extends that guarantee across processes.
type Orchestrator struct {
	store     catalog.Store
	crawler   *crawler.Crawler
	batchSize int
	cache     *lru.Cache[string, *als.Metadata]
	lock      *Lock
	progress  ProgressFunc
}

// New creates an Orchestrator. Store and Crawler are required.
func New(opts Options) *Orchestrator {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, *als.Metadata](cacheSize)

	o := &Orchestrator{
		store:     opts.Store,
		crawler:   opts.Crawler,
		batchSize: batchSize,
		cache:     cache,
		progress:  opts.Progress,
	}
	if opts.LockDir != "" {
		o.lock = NewLock(opts.LockDir)
	}
	return o
}

func (o *Orchestrator) emit(e Event) {
	if o.progress != nil {
		o.progress(e)
	}
}

// Scan indexes every enabled location and returns the total number of
// entries indexed. Per-file failures are logged and skipped; only store
// or crawl failures abort the scan. Batches persisted before an abort
// stay committed.
func (o *Orchestrator) Scan(ctx context.Context) (int, error) {
	if o.lock != nil {
		acquired, err := o.lock.TryAcquire()
		if err != nil {
			return 0, apperrors.New(apperrors.ErrCodeInternal, "scan lock error", err)
		}
		if !acquired {
			return 0, apperrors.New(apperrors.ErrCodeScanRunning, "another scan is already running", nil)
		}
		defer func() { _ = o.lock.Release() }()
	}

	start := time.Now()
	o.emit(Event{Kind: KindStarting})

	locations, err := o.store.FetchLocations(ctx)
	if err != nil {
		o.emit(Event{Kind: KindFailed, Err: err})
		return 0, err
	}

	total := 0
	for _, loc := range locations {
		if !loc.Enabled {
			continue
		}
		count, err := o.scanLocation(ctx, loc)
		total += count
		if err != nil {
			o.emit(Event{Kind: KindFailed, Err: err})
			return total, err
		}
	}

	o.emit(Event{Kind: KindCompleted, Count: total, Elapsed: time.Since(start)})
	slog.Info("scan_completed",
		slog.Int("indexed", total),
		slog.Duration("elapsed", time.Since(start)))
	return total, nil
}

// ScanLocation indexes a single location.
func (o *Orchestrator) ScanLocation(ctx context.Context, loc *catalog.Location) (int, error) {
	start := time.Now()
	o.emit(Event{Kind: KindStarting})

	count, err := o.scanLocation(ctx, loc)
	if err != nil {
		o.emit(Event{Kind: KindFailed, Err: err})
		return count, err
	}

	o.emit(Event{Kind: KindCompleted, Count: count, Elapsed: time.Since(start)})
	return count, nil
}

func (o *Orchestrator) scanLocation(ctx context.Context, loc *catalog.Location) (int, error) {
	o.emit(Event{Kind: KindDiscovering, Location: loc.Name})

	projects, err := o.crawler.Discover(ctx, loc.Path)
	if err != nil {
		return 0, err
	}

	if len(projects) == 0 {
		if err := o.store.UpdateLocationStats(ctx, loc.ID, 0, time.Now()); err != nil {
			return 0, err
		}
		return 0, nil
	}

	paths := make([]string, len(projects))
	for i, p := range projects {
		paths[i] = p.FilePath
	}
	existing, err := o.store.FetchByPaths(ctx, paths)
	if err != nil {
		return 0, err
	}

	total := len(projects)
	indexed := 0

	for batchStart := 0; batchStart < total; batchStart += o.batchSize {
		// Cancellation is honored between batches so a committed batch
		// is never torn.
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		batchEnd := batchStart + o.batchSize
		if batchEnd > total {
			batchEnd = total
		}
		batch := projects[batchStart:batchEnd]

		entries, err := o.parseBatch(ctx, batch, existing)
		if err != nil {
			return indexed, err
		}

		if len(entries) > 0 {
			if err := o.store.UpsertMany(ctx, entries); err != nil {
				return indexed, err
			}
			indexed += len(entries)
		}

		o.emit(Event{
			Kind:     KindParsing,
			Current:  batchEnd,
			Total:    total,
			File:     batch[len(batch)-1].Name,
			Location: loc.Name,
		})
	}

	if err := o.store.UpdateLocationStats(ctx, loc.ID, indexed, time.Now()); err != nil {
		return indexed, err
	}
	return indexed, nil
}

// parseBatch fans out one task per file and joins. A failed file is
// logged and dropped from the result; it never aborts the batch.
func (o *Orchestrator) parseBatch(ctx context.Context, batch []crawler.Project, existing map[string]*catalog.Entry) ([]*catalog.Entry, error) {
	results := make([]*catalog.Entry, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range batch {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			entry, err := o.parseOne(p, existing[p.FilePath])
			if err != nil {
				slog.Warn("parse_failed",
					slog.String("file", p.FilePath),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]*catalog.Entry, 0, len(batch))
	for _, e := range results {
		if e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// parseOne reads and parses a single file, then merges with the existing
// entry. Derived fields always come from the fresh parse; user-owned
// fields are carried forward untouched.
func (o *Orchestrator) parseOne(p crawler.Project, prev *catalog.Entry) (*catalog.Entry, error) {
	data, err := os.ReadFile(p.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, p.FilePath, err)
		}
		if os.IsPermission(err) {
			return nil, apperrors.New(apperrors.ErrCodeFilePermission, p.FilePath, err)
		}
		return nil, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	meta, err := o.metadataFor(hash, prev, data)
	if err != nil {
		return nil, err
	}

	entry := &catalog.Entry{
		Name:           p.Name,
		FolderPath:     p.FolderPath,
		FilePath:       p.FilePath,
		Volume:         p.Volume,
		ContentHash:    hash,
		FileCreatedAt:  p.CreatedAt,
		FileModifiedAt: p.ModifiedAt,
		IndexedAt:      time.Now(),

		Tempo:              meta.Tempo,
		TimeSigNumerator:   meta.TimeSigNumerator,
		TimeSigDenominator: meta.TimeSigDenominator,
		AudioTracks:        meta.AudioTracks,
		MidiTracks:         meta.MidiTracks,
		ReturnTracks:       meta.ReturnTracks,
		Creator:            meta.Creator,
		DurationSeconds:    meta.DurationSeconds,
		SampleNames:        meta.SampleNames,
		PluginNames:        meta.PluginNames,
		Keys:               meta.Keys,
	}

	if prev != nil {
		entry.ID = prev.ID
		entry.Tags = prev.Tags
		entry.Notes = prev.Notes
		entry.Status = prev.Status
		entry.Favorite = prev.Favorite
		entry.ColorLabel = prev.ColorLabel
		entry.LastOpenedAt = prev.LastOpenedAt
	} else {
		entry.ID = uuid.NewString()
		entry.Status = catalog.StatusNone
	}

	return entry, nil
}

// metadataFor returns parsed metadata for data, skipping the parse when
// the content hash matches the previous scan or a cached result.
func (o *Orchestrator) metadataFor(hash string, prev *catalog.Entry, data []byte) (*als.Metadata, error) {
	if prev != nil && prev.ContentHash == hash {
		return &als.Metadata{
			Tempo:              prev.Tempo,
			TimeSigNumerator:   prev.TimeSigNumerator,
			TimeSigDenominator: prev.TimeSigDenominator,
			AudioTracks:        prev.AudioTracks,
			MidiTracks:         prev.MidiTracks,
			ReturnTracks:       prev.ReturnTracks,
			Creator:            prev.Creator,
			DurationSeconds:    prev.DurationSeconds,
			SampleNames:        prev.SampleNames,
			PluginNames:        prev.PluginNames,
			Keys:               prev.Keys,
		}, nil
	}

	if meta, ok := o.cache.Get(hash); ok {
		return meta, nil
	}

	text, err := als.Decode(data)
	if err != nil {
		return nil, err
	}
	meta := als.Extract(text)
	o.cache.Add(hash, meta)
	return meta, nil
}
