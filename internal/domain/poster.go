package domain

import (
	"encoding/json"
	"time"
)

// Orientation is the long-axis direction of a display or image.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// OrientationOf returns the natural orientation of a width/height pair.
// Square images count as portrait so they never trigger a rotation.
func OrientationOf(width, height int) Orientation {
	if width > height {
		return OrientationLandscape
	}
	return OrientationPortrait
}

// PosterRecord is one poster as known to the remote API.
type PosterRecord struct {
	ID        string    `json:"id"`
	RemoteURL string    `json:"remote_url"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic,omitempty"`
	Presenter string    `json:"presenter,omitempty"`
	Institute string    `json:"institute,omitempty"`
	StartsAt  time.Time `json:"starts_at,omitempty"`
	EndsAt    time.Time `json:"ends_at,omitempty"`
	LastSeen  time.Time `json:"last_seen"`
}

// ScheduleStatus describes where a poster sits relative to its
// start/end window at a given instant.
type ScheduleStatus int

const (
	ScheduleUnknown ScheduleStatus = iota
	ScheduleActive
	ScheduleUpcoming
	SchedulePast
)

func (s ScheduleStatus) String() string {
	switch s {
	case ScheduleActive:
		return "ACTIVE"
	case ScheduleUpcoming:
		return "UPCOMING"
	case SchedulePast:
		return "PAST"
	default:
		return ""
	}
}

// ScheduleStatusAt classifies the record's schedule window at now.
// Records without a window report ScheduleUnknown.
func (r PosterRecord) ScheduleStatusAt(now time.Time) ScheduleStatus {
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		return ScheduleUnknown
	}
	switch {
	case now.Before(r.StartsAt):
		return ScheduleUpcoming
	case now.After(r.EndsAt):
		return SchedulePast
	default:
		return ScheduleActive
	}
}

// PosterList is the outcome of one successful API fetch: the ordered
// records for this device plus the per-record display time the server
// may dictate (0 means "use the configured default").
type PosterList struct {
	Records     []PosterRecord `json:"records"`
	DisplayTime int            `json:"display_time,omitempty"`
	FetchedAt   time.Time      `json:"fetched_at"`
}

// CacheEntry is one downloaded poster image on disk. Entries are owned
// by the store; consumers read images through the store's accessor and
// never touch LocalPath directly.
type CacheEntry struct {
	ID          string      `json:"id"`
	LocalPath   string      `json:"local_path"`
	ByteSize    int64       `json:"byte_size"`
	SHA256      string      `json:"sha256"`
	FetchedAt   time.Time   `json:"fetched_at"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Orientation Orientation `json:"orientation"`
}

// EventMetadata is the opaque event blob the API serves alongside the
// poster list. The display only decorates with it, so the payload stays
// raw JSON.
type EventMetadata struct {
	Raw       json.RawMessage `json:"raw"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Name extracts a human-readable event name from the raw payload, or ""
// if none is present.
func (m EventMetadata) Name() string {
	if len(m.Raw) == 0 {
		return ""
	}
	var probe struct {
		Name  string `json:"name"`
		Title string `json:"title"`
		Event string `json:"event_name"`
	}
	if err := json.Unmarshal(m.Raw, &probe); err != nil {
		return ""
	}
	switch {
	case probe.Name != "":
		return probe.Name
	case probe.Title != "":
		return probe.Title
	default:
		return probe.Event
	}
}
