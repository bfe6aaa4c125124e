package google

import (
	"context"
	"fmt"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Calendar is a read-only calendar.Source backed by the Google Calendar API.
type Calendar struct {
	service    *gcal.Service
	calendarId string
}

// NewCalendar builds a Source for one Google calendar using the cached OAuth
// credentials.
func NewCalendar(ctx context.Context, auth *Auth, calendarId string) (*Calendar, error) {
	client, err := auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar service: %w", err)
	}
	return &Calendar{service: service, calendarId: calendarId}, nil
}

func (c *Calendar) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	googleEvents, err := c.service.Events.List(c.calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()

	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	return googleEventsToEvents(googleEvents.Items), nil
}

// googleEventsToEvents normalizes Google events, which carry either a
// date-only form (all-day) or an RFC3339 timestamp. Unparseable instants
// become zero times rather than errors; downstream classification treats
// such events as zero-duration.
func googleEventsToEvents(googleEvents []*gcal.Event) []calendar.Event {
	events := make([]calendar.Event, 0, len(googleEvents))
	for _, item := range googleEvents {
		startTime, startAllDay := parseEventTime(item.Start)
		endTime, _ := parseEventTime(item.End)
		if startTime.IsZero() {
			log.Warnf("Calendar event %q has no parseable start time (%v)", item.Summary, item.Start)
		}

		event := calendar.Event{
			UID:         item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			StartTime:   startTime,
			EndTime:     endTime,
			AllDay:      startAllDay,
		}
		if item.Organizer != nil {
			event.Organizer = item.Organizer.Email
		}
		for _, attendee := range item.Attendees {
			event.Attendees = append(event.Attendees, attendee.Email)
		}
		events = append(events, event)
	}
	return events
}

func parseEventTime(t *gcal.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.Date != "" {
		parsed, err := time.Parse(calendar.DateFormat, t.Date)
		if err != nil {
			return time.Time{}, true
		}
		return parsed, true
	}
	parsed, err := time.Parse(time.RFC3339, t.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, false
}
