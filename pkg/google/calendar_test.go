package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func TestGoogleEventsToEvents(t *testing.T) {
	t.Run("timed event keeps its timestamps", func(t *testing.T) {
		events := googleEventsToEvents([]*gcal.Event{{
			Id:          "evt-1",
			Summary:     "Standup",
			Description: "Daily",
			Start:       &gcal.EventDateTime{DateTime: "2025-11-24T10:00:00Z"},
			End:         &gcal.EventDateTime{DateTime: "2025-11-24T10:30:00Z"},
			Organizer:   &gcal.EventOrganizer{Email: "lead@example.com"},
			Attendees: []*gcal.EventAttendee{
				{Email: "dev@example.com"},
				{Email: "qa@example.com"},
			},
		}})

		require.Len(t, events, 1)
		event := events[0]
		assert.Equal(t, "evt-1", event.UID)
		assert.Equal(t, "Standup", event.Summary)
		assert.Equal(t, "2025-11-24", event.Date())
		assert.Equal(t, 30*time.Minute, event.EndTime.Sub(event.StartTime))
		assert.False(t, event.AllDay)
		assert.Equal(t, "lead@example.com", event.Organizer)
		assert.Equal(t, []string{"dev@example.com", "qa@example.com"}, event.Attendees)
	})

	t.Run("date-only event is all-day", func(t *testing.T) {
		events := googleEventsToEvents([]*gcal.Event{{
			Id:      "evt-2",
			Summary: "WFO",
			Start:   &gcal.EventDateTime{Date: "2025-11-24"},
			End:     &gcal.EventDateTime{Date: "2025-11-25"},
		}})

		require.Len(t, events, 1)
		assert.True(t, events[0].AllDay)
		assert.Equal(t, "2025-11-24", events[0].Date())
	})

	t.Run("malformed instants become zero times, not errors", func(t *testing.T) {
		events := googleEventsToEvents([]*gcal.Event{{
			Id:      "evt-3",
			Summary: "Broken",
			Start:   &gcal.EventDateTime{DateTime: "yesterday-ish"},
			End:     nil,
		}})

		require.Len(t, events, 1)
		assert.True(t, events[0].StartTime.IsZero())
		assert.True(t, events[0].EndTime.IsZero())
		assert.Equal(t, "", events[0].Date())
	})
}

func TestParseEventTime(t *testing.T) {
	t.Run("nil is a zero time", func(t *testing.T) {
		parsed, allDay := parseEventTime(nil)
		assert.True(t, parsed.IsZero())
		assert.False(t, allDay)
	})

	t.Run("RFC3339 with offset", func(t *testing.T) {
		parsed, allDay := parseEventTime(&gcal.EventDateTime{DateTime: "2025-11-24T10:00:00+02:00"})
		assert.False(t, allDay)
		assert.Equal(t, 8, parsed.UTC().Hour())
	})
}
