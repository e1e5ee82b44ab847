package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/posterbridge/eposter/internal/imaging"
)

// Command factories for async operations

// WaitForSnapshotCmd blocks on the scheduler's notify channel and wakes
// the model when a new snapshot has been published. Re-armed after every
// delivery.
func WaitForSnapshotCmd(notify <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-notify; !ok {
			return nil
		}
		return SnapshotUpdatedMsg{}
	}
}

// RotateTickCmd schedules the next rotation step for the given
// generation.
func RotateTickCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RotateTickMsg{Gen: gen}
	})
}

// PrepareSurfaceCmd reads a poster's cached bytes and prepares its
// surface off the render path. Decode failure marks the poster skipped;
// the render loop never blocks on this.
func PrepareSurfaceCmd(cache ImageReader, id string, geom imaging.Geometry) tea.Cmd {
	return func() tea.Msg {
		raw, err := cache.ReadImage(id)
		if err != nil {
			return SurfaceFailedMsg{ID: id, Err: err}
		}
		surface, err := imaging.Prepare(raw, geom)
		if err != nil {
			return SurfaceFailedMsg{ID: id, Err: err}
		}
		return SurfaceReadyMsg{ID: id, Surface: surface}
	}
}

// LoadEventMetadataCmd reads the mirrored event metadata for footer
// decoration.
func LoadEventMetadataCmd(cache ImageReader) tea.Cmd {
	return func() tea.Msg {
		meta, err := cache.LoadEventMetadata()
		if err != nil || meta == nil {
			return EventMetadataMsg{}
		}
		return EventMetadataMsg{Name: meta.Name()}
	}
}
