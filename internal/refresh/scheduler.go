// Package refresh runs the background cycle that keeps the poster cache
// and the published snapshot current: probe connectivity, fetch the
// remote list, reconcile the cache, download what's missing, then swap
// the snapshot handle. Everything here may block on network or disk;
// nothing here ever runs on the render loop.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/posterbridge/eposter/internal/domain"
	"github.com/posterbridge/eposter/internal/store"
)

// Probe reports current network reachability.
type Probe interface {
	Online(ctx context.Context) bool
}

// Fetcher is the slice of the API client the scheduler needs.
type Fetcher interface {
	FetchPosters(ctx context.Context) (*domain.PosterList, error)
	FetchEventMetadata(ctx context.Context) (*domain.EventMetadata, error)
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// Store is the slice of the cache store the scheduler needs.
type Store interface {
	Get(id string) (domain.CacheEntry, bool)
	PutIfAbsent(record domain.PosterRecord, data []byte) (domain.CacheEntry, error)
	Reconcile(latest []domain.PosterRecord, live *domain.Snapshot) store.EvictionReport
	SaveManifest(list *domain.PosterList) error
	SaveEventMetadata(meta *domain.EventMetadata) error
	WarmStart() (*domain.PosterList, error)
}

// Scheduler orchestrates refresh cycles on a fixed interval.
type Scheduler struct {
	interval time.Duration
	probe    Probe
	fetcher  Fetcher
	store    Store
	handle   *domain.SnapshotHandle
	notify   chan<- struct{}
	logger   *slog.Logger

	mu          sync.Mutex
	lastAttempt time.Time
}

// New creates a scheduler. notify receives a (non-blocking) signal after
// every snapshot publication; pass a buffered channel.
func New(interval time.Duration, probe Probe, fetcher Fetcher, st Store,
	handle *domain.SnapshotHandle, notify chan<- struct{}, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		probe:    probe,
		fetcher:  fetcher,
		store:    st,
		handle:   handle,
		notify:   notify,
		logger:   logger,
	}
}

// LastAttempt returns when the most recent cycle started.
func (s *Scheduler) LastAttempt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAttempt
}

// Bootstrap publishes a warm-start snapshot from the on-disk mirror, if
// one exists, so the display has content before the first cycle (or
// with no connectivity at all).
func (s *Scheduler) Bootstrap() {
	list, err := s.store.WarmStart()
	if err != nil {
		s.logger.Warn("warm start failed", "error", err)
		return
	}
	if list == nil || len(list.Records) == 0 {
		return
	}
	snap := s.buildSnapshot(list, domain.SourceWarmStart)
	if snap.Len() == 0 {
		return
	}
	s.publish(snap)
	s.logger.Info("published warm-start snapshot", "posters", snap.Len())
}

// Run executes one immediate cycle and then one per interval until the
// context is cancelled. Cycle failures are contained here; they never
// propagate to the display.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("refresh scheduler started", "interval", s.interval)

	if err := s.Cycle(ctx); err != nil {
		s.logCycleError(err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Cycle(ctx); err != nil {
				s.logCycleError(err)
			}
		}
	}
}

// Cycle performs one complete refresh pass. Offline is a normal outcome,
// not an error: the cycle returns immediately without touching the cache
// or the published snapshot.
func (s *Scheduler) Cycle(ctx context.Context) error {
	s.mu.Lock()
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	if !s.probe.Online(ctx) {
		s.logger.Debug("offline, skipping refresh cycle")
		return nil
	}

	list, err := s.fetcher.FetchPosters(ctx)
	if err != nil {
		return fmt.Errorf("fetching posters: %w", err)
	}
	s.logger.Debug("poster list fetched", "records", len(list.Records))

	// Event metadata is decoration; its failure never fails the cycle.
	if meta, err := s.fetcher.FetchEventMetadata(ctx); err != nil {
		s.logger.Debug("event metadata fetch failed", "error", err)
	} else if err := s.store.SaveEventMetadata(meta); err != nil {
		s.logger.Warn("failed to mirror event metadata", "error", err)
	}

	// Reconcile against the snapshot currently on screen; the swap to the
	// new list happens only after downloads complete.
	report := s.store.Reconcile(list.Records, s.handle.Current())
	if len(report.Evicted) > 0 {
		s.logger.Info("reconcile evicted posters", "count", len(report.Evicted), "ids", report.Evicted)
	}

	for _, rec := range report.Missing {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.fetcher.DownloadImage(ctx, rec.RemoteURL)
		if err != nil {
			// Absent from this snapshot; retried next cycle.
			s.logger.Warn("poster download failed", "poster", rec.ID, "error", err)
			continue
		}
		if _, err := s.store.PutIfAbsent(rec, data); err != nil {
			if errors.Is(err, domain.ErrMalformed) {
				s.logger.Warn("poster image undecodable", "poster", rec.ID, "error", err)
				continue
			}
			// Disk trouble: keep the previous snapshot, retry next cycle.
			return fmt.Errorf("caching poster %s: %w", rec.ID, err)
		}
	}

	if err := s.store.SaveManifest(list); err != nil {
		return fmt.Errorf("mirroring poster list: %w", err)
	}

	snap := s.buildSnapshot(list, domain.SourceAPI)
	s.publish(snap)
	s.logger.Info("snapshot published", "posters", snap.Len(), "of", len(list.Records))
	return nil
}

// buildSnapshot resolves cache entries for the list, preserving order.
// Records without a downloaded image are left out until a later cycle.
func (s *Scheduler) buildSnapshot(list *domain.PosterList, source domain.SnapshotSource) *domain.Snapshot {
	snap := &domain.Snapshot{
		DisplayTime: list.DisplayTime,
		FetchedAt:   list.FetchedAt,
		Source:      source,
	}
	for _, rec := range list.Records {
		entry, ok := s.store.Get(rec.ID)
		if !ok {
			continue
		}
		snap.Items = append(snap.Items, domain.SnapshotItem{Record: rec, Entry: entry})
	}
	return snap
}

func (s *Scheduler) publish(snap *domain.Snapshot) {
	s.handle.Publish(snap)
	if s.notify == nil {
		return
	}
	select {
	case s.notify <- struct{}{}:
	default: // display will pick it up on its next wake
	}
}

// logCycleError routes cycle failures to the right severity. A bad
// token is an operator problem and gets WARN; everything else is the
// expected churn of an intermittent network.
func (s *Scheduler) logCycleError(err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		s.logger.Warn("poster token rejected; check EPOSTER_API_TOKEN", "error", err)
	case errors.Is(err, domain.ErrMalformed):
		s.logger.Warn("discarding malformed API payload", "error", err)
	case errors.Is(err, context.Canceled):
		// Shutdown in progress.
	default:
		s.logger.Error("refresh cycle failed", "error", err)
	}
}
