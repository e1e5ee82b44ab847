package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/posterbridge/eposter/internal/domain"
)

const (
	manifestFile = "posters.json"
	eventFile    = "events.json"
)

// manifest mirrors the last successfully fetched poster list plus the
// cache entries resolved for it, so a restart while offline can warm
// the display from disk.
type manifest struct {
	SavedAt time.Time                    `json:"saved_at"`
	List    domain.PosterList            `json:"list"`
	Entries map[string]domain.CacheEntry `json:"entries"`
}

// SaveManifest persists the latest poster list and the current entry
// index. Written atomically; a torn write never replaces a good mirror.
func (s *Store) SaveManifest(list *domain.PosterList) error {
	s.mu.RLock()
	m := manifest{
		SavedAt: time.Now(),
		List:    *list,
		Entries: make(map[string]domain.CacheEntry, len(s.entries)),
	}
	for id, e := range s.entries {
		m.Entries[id] = e
	}
	s.mu.RUnlock()

	return s.writeJSON(filepath.Join(s.dir, manifestFile), m)
}

// SaveEventMetadata mirrors the last fetched event metadata to disk.
func (s *Store) SaveEventMetadata(meta *domain.EventMetadata) error {
	return s.writeJSON(filepath.Join(s.dir, eventFile), meta)
}

// LoadEventMetadata returns the mirrored event metadata, or nil if the
// device has never fetched any.
func (s *Store) LoadEventMetadata() (*domain.EventMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, eventFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var meta domain.EventMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("corrupt event mirror: %w", err)
	}
	return &meta, nil
}

// WarmStart rebuilds the entry index from the manifest and returns the
// mirrored poster list, so the display can render before the first
// successful refresh (or with no connectivity at all). Entries whose
// file is gone or whose size no longer matches are dropped; a partial
// download never warms into a valid entry. Returns (nil, nil) when no
// manifest exists.
func (s *Store) WarmStart() (*domain.PosterList, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupt poster mirror: %w", err)
	}

	s.mu.Lock()
	for id, e := range m.Entries {
		info, err := os.Stat(e.LocalPath)
		if err != nil || info.Size() != e.ByteSize {
			s.logger.Warn("discarding warm-start entry", "poster", id)
			continue
		}
		s.entries[id] = e
	}
	loaded := len(s.entries)
	s.mu.Unlock()

	s.logger.Info("warm start", "entries", loaded, "records", len(m.List.Records),
		"saved_at", m.SavedAt)
	return &m.List, nil
}

// writeJSON writes v to path via temp-file-then-rename.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing %s: %w", filepath.Base(path), err)
	}
	return nil
}
