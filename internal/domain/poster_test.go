package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrientationOf(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want Orientation
	}{
		{"taller than wide", 800, 1200, OrientationPortrait},
		{"wider than tall", 1920, 1080, OrientationLandscape},
		{"square counts as portrait", 500, 500, OrientationPortrait},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrientationOf(tt.w, tt.h))
		})
	}
}

func TestScheduleStatusAt(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	window := func(startOffset, endOffset time.Duration) PosterRecord {
		return PosterRecord{
			StartsAt: now.Add(startOffset),
			EndsAt:   now.Add(endOffset),
		}
	}

	tests := []struct {
		name   string
		record PosterRecord
		want   ScheduleStatus
	}{
		{"inside window", window(-time.Hour, time.Hour), ScheduleActive},
		{"before window", window(time.Hour, 2*time.Hour), ScheduleUpcoming},
		{"after window", window(-2*time.Hour, -time.Hour), SchedulePast},
		{"at start boundary", window(0, time.Hour), ScheduleActive},
		{"no window", PosterRecord{}, ScheduleUnknown},
		{"half window", PosterRecord{StartsAt: now}, ScheduleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.ScheduleStatusAt(now))
		})
	}
}

func TestEventMetadataName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"name key", `{"name":"Spring Meeting"}`, "Spring Meeting"},
		{"title key", `{"title":"Poster Session"}`, "Poster Session"},
		{"event_name key", `{"event_name":"Symposium"}`, "Symposium"},
		{"name wins over title", `{"name":"A","title":"B"}`, "A"},
		{"no known keys", `{"venue":"Hall 3"}`, ""},
		{"empty payload", ``, ""},
		{"non-object payload", `[1,2,3]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EventMetadata{Raw: json.RawMessage(tt.raw)}
			assert.Equal(t, tt.want, m.Name())
		})
	}
}
