// Package store owns the on-disk poster image cache: one image file per
// poster id plus JSON mirrors of the last fetched poster list and event
// metadata. The refresh scheduler is the only writer; the display loop
// reads entries and image bytes through accessors and never touches
// files directly.
package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/posterbridge/eposter/internal/domain"

	_ "image/gif"  // poster decoder registration
	_ "image/jpeg" // poster decoder registration
	_ "image/png"  // poster decoder registration
)

const imagesDirName = "images"

// EvictionReport summarizes one Reconcile pass.
type EvictionReport struct {
	Evicted []string              // ids whose files were removed
	Missing []domain.PosterRecord // records in the latest list with no cache entry yet
	Kept    int                   // entries still cached after the pass
}

// Store maps poster ids to cached image files plus metadata.
type Store struct {
	dir         string
	imagesDir   string
	graceCycles int
	logger      *slog.Logger

	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
	absent  map[string]int // consecutive reconcile passes an id was missing from the remote list
}

// New opens (creating if needed) the cache directory. Stray temp files
// from an interrupted download are discarded; they are never valid
// entries.
func New(dir string, graceCycles int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	imagesDir := filepath.Join(dir, imagesDirName)
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &Store{
		dir:         dir,
		imagesDir:   imagesDir,
		graceCycles: graceCycles,
		logger:      logger,
		entries:     make(map[string]domain.CacheEntry),
		absent:      make(map[string]int),
	}
	s.removeStrayTempFiles()
	return s, nil
}

// Dir returns the cache root directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) removeStrayTempFiles() {
	for _, dir := range []string{s.imagesDir, s.dir} {
		matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if err := os.Remove(path); err == nil {
				s.logger.Debug("removed stale temp file", "path", path)
			}
		}
	}
}

// Get returns the cache entry for id, if present. Safe to call from the
// render loop concurrently with scheduler writes.
func (s *Store) Get(id string) (domain.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ReadImage returns the raw bytes of a cached poster image.
func (s *Store) ReadImage(id string) ([]byte, error) {
	e, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotCached, id)
	}
	data, err := os.ReadFile(e.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("reading cached image %s: %w", id, err)
	}
	return data, nil
}

// PutIfAbsent stores the downloaded bytes for a record. Re-fetching an
// already-cached poster with identical content is a no-op write; changed
// content replaces the file. The image is written to a temp file and
// renamed so a cancelled download can never surface as a valid entry.
func (s *Store) PutIfAbsent(record domain.PosterRecord, data []byte) (domain.CacheEntry, error) {
	sum := sha256.Sum256(data)
	shaHex := hex.EncodeToString(sum[:])

	s.mu.RLock()
	existing, ok := s.entries[record.ID]
	s.mu.RUnlock()
	if ok && existing.SHA256 == shaHex {
		return existing, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.CacheEntry{}, fmt.Errorf("poster %s: %w: %v", record.ID, domain.ErrMalformed, err)
	}

	finalPath := filepath.Join(s.imagesDir, record.ID+imageExt(record.RemoteURL))
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("writing poster %s: %w", record.ID, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return domain.CacheEntry{}, fmt.Errorf("committing poster %s: %w", record.ID, err)
	}

	// The extension can change if the remote URL changed; drop the old file.
	if ok && existing.LocalPath != finalPath {
		os.Remove(existing.LocalPath)
	}

	entry := domain.CacheEntry{
		ID:          record.ID,
		LocalPath:   finalPath,
		ByteSize:    int64(len(data)),
		SHA256:      shaHex,
		FetchedAt:   time.Now(),
		Width:       cfg.Width,
		Height:      cfg.Height,
		Orientation: domain.OrientationOf(cfg.Width, cfg.Height),
	}

	s.mu.Lock()
	s.entries[record.ID] = entry
	delete(s.absent, record.ID)
	s.mu.Unlock()

	s.logger.Info("poster cached", "poster", record.ID, "bytes", entry.ByteSize)
	return entry, nil
}

// Reconcile diffs the cached ids against the latest remote list. Ids
// absent from the list longer than the grace period are deleted from
// disk — unless the currently published snapshot still references them,
// which always wins. Records in the list without a cache entry come back
// in the report for the scheduler to download; reconcile itself does no
// fetching.
func (s *Store) Reconcile(latest []domain.PosterRecord, live *domain.Snapshot) EvictionReport {
	latestIDs := make(map[string]struct{}, len(latest))
	for _, r := range latest {
		latestIDs[r.ID] = struct{}{}
	}

	var report EvictionReport

	s.mu.Lock()
	for id, entry := range s.entries {
		if _, ok := latestIDs[id]; ok {
			delete(s.absent, id)
			continue
		}
		s.absent[id]++
		if s.absent[id] <= s.graceCycles {
			continue
		}
		if live.Contains(id) {
			// Still on screen; eviction waits for the snapshot swap.
			continue
		}
		if err := os.Remove(entry.LocalPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to delete evicted poster", "poster", id, "error", err)
			continue
		}
		delete(s.entries, id)
		delete(s.absent, id)
		report.Evicted = append(report.Evicted, id)
		s.logger.Info("poster evicted", "poster", id)
	}
	report.Kept = len(s.entries)

	for _, r := range latest {
		if _, ok := s.entries[r.ID]; !ok {
			report.Missing = append(report.Missing, r)
		}
	}
	s.mu.Unlock()

	return report
}

// imageExt picks the cached file's extension from the remote URL,
// falling back to .img for unrecognized names.
func imageExt(remoteURL string) string {
	name := remoteURL
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png", ".jpg", ".jpeg", ".gif":
		return ext
	default:
		return ".img"
	}
}
