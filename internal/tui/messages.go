package tui

import (
	"github.com/posterbridge/eposter/internal/imaging"
)

// Message types for the display loop

// SnapshotUpdatedMsg signals that the scheduler published a new poster
// snapshot; the model re-reads the shared handle.
type SnapshotUpdatedMsg struct{}

// RotateTickMsg advances the timed rotation. Gen guards against stale
// ticks: a mode change bumps the generation, so ticks armed before the
// change are dropped on arrival.
type RotateTickMsg struct {
	Gen int
}

// SurfaceReadyMsg delivers a poster surface prepared off the render path.
type SurfaceReadyMsg struct {
	ID      string
	Surface *imaging.Surface
}

// SurfaceFailedMsg marks a poster undecodable; it is skipped for the
// rest of the rotation pass.
type SurfaceFailedMsg struct {
	ID  string
	Err error
}

// EventMetadataMsg delivers the event name used for footer decoration.
type EventMetadataMsg struct {
	Name string
}
