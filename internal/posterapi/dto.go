package posterapi

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/posterbridge/eposter/internal/domain"
)

// scheduleTimeLayout is the datetime format the poster API uses for
// start/end windows (day-month-year).
const scheduleTimeLayout = "02-01-2006 15:04:05"

// listResponse is the poster-list endpoint envelope. Older deployments
// return a flat "data" array; newer ones group records per screen.
type listResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    []posterDTO `json:"data"`
	Posters []posterDTO `json:"eposters"`
	Screens []screenDTO `json:"screens"`
}

// screenDTO is one physical display's section of the poster list.
type screenDTO struct {
	ScreenNumber     string      `json:"screen_number"`
	MinutesPerRecord int         `json:"minutes_per_record"`
	Records          []posterDTO `json:"records"`
}

// posterDTO is one poster as the API serves it.
type posterDTO struct {
	ID            json.Number `json:"id"`
	ImageURL      string      `json:"image_url"`
	PosterTitle   string      `json:"poster_title"`
	Topic         string      `json:"topic"`
	MainPresenter string      `json:"main_presenter"`
	Institute     string      `json:"institute"`
	StartDateTime string      `json:"start_date_time"`
	EndDateTime   string      `json:"end_date_time"`
}

// toRecord maps a DTO to a domain record. Schedule fields parse
// leniently: a bad datetime is logged and zeroed, the record survives.
func (d posterDTO) toRecord(now time.Time, logger *slog.Logger) domain.PosterRecord {
	rec := domain.PosterRecord{
		ID:        d.ID.String(),
		RemoteURL: d.ImageURL,
		Title:     d.PosterTitle,
		Topic:     d.Topic,
		Presenter: d.MainPresenter,
		Institute: d.Institute,
		LastSeen:  now,
	}
	rec.StartsAt = parseScheduleTime(d.StartDateTime, d.ID.String(), logger)
	rec.EndsAt = parseScheduleTime(d.EndDateTime, d.ID.String(), logger)
	if !rec.StartsAt.IsZero() && !rec.EndsAt.IsZero() && rec.EndsAt.Before(rec.StartsAt) {
		logger.Warn("poster schedule window inverted, ignoring", "poster", rec.ID)
		rec.StartsAt, rec.EndsAt = time.Time{}, time.Time{}
	}
	return rec
}

func parseScheduleTime(s, posterID string, logger *slog.Logger) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(scheduleTimeLayout, s, time.Local)
	if err != nil {
		logger.Warn("unparsable schedule time", "poster", posterID, "value", s)
		return time.Time{}
	}
	return t
}
