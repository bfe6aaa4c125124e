package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holidayFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:yk-2025@example.com
DTSTART;VALUE=DATE:20251002
SUMMARY:Yom Kippur
END:VEVENT
BEGIN:VEVENT
UID:standup@example.com
DTSTART:20251006T071500Z
DTEND:20251006T073000Z
SUMMARY:Daily standup
RRULE:FREQ=DAILY;COUNT=10
EXDATE:20251008T071500Z
END:VEVENT
END:VCALENDAR
`

func window(from, to string) (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	return start, end.Add(24*time.Hour - time.Second)
}

func TestParseAndExpand(t *testing.T) {
	t.Run("all-day event is normalized to a midnight-based day", func(t *testing.T) {
		from, to := window("2025-10-01", "2025-10-03")
		events, err := parseAndExpand([]byte(holidayFeed), from, to)

		require.NoError(t, err)
		var found bool
		for _, event := range events {
			if event.Summary == "Yom Kippur" {
				found = true
				assert.True(t, event.AllDay)
				assert.Equal(t, "2025-10-02", event.Date())
				assert.Equal(t, 24*time.Hour, event.EndTime.Sub(event.StartTime))
			}
		}
		assert.True(t, found)
	})

	t.Run("recurring event expands inside the window only", func(t *testing.T) {
		from, to := window("2025-10-06", "2025-10-09")
		events, err := parseAndExpand([]byte(holidayFeed), from, to)

		require.NoError(t, err)
		var standups []string
		for _, event := range events {
			if event.Summary == "Daily standup" {
				standups = append(standups, event.Date())
			}
		}
		// Oct 8 is excluded via EXDATE.
		assert.Equal(t, []string{"2025-10-06", "2025-10-07", "2025-10-09"}, standups)
	})

	t.Run("occurrences keep the original duration", func(t *testing.T) {
		from, to := window("2025-10-07", "2025-10-07")
		events, err := parseAndExpand([]byte(holidayFeed), from, to)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 15*time.Minute, events[0].EndTime.Sub(events[0].StartTime))
	})

	t.Run("events outside the window are dropped", func(t *testing.T) {
		from, to := window("2026-01-01", "2026-01-31")
		events, err := parseAndExpand([]byte(holidayFeed), from, to)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("garbage payload is an error", func(t *testing.T) {
		from, to := window("2025-10-01", "2025-10-31")
		_, err := parseAndExpand([]byte("not an ics feed"), from, to)
		assert.Error(t, err)
	})
}

func TestSourceGetEvents(t *testing.T) {
	t.Run("fetches and parses the feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/calendar")
			_, _ = w.Write([]byte(holidayFeed))
		}))
		defer server.Close()

		source := NewSource(server.URL)
		from, to := window("2025-10-01", "2025-10-03")
		events, err := source.GetEvents(context.Background(), from, to)

		assert.NoError(t, err)
		assert.NotEmpty(t, events)
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		source := NewSource(server.URL)
		from, to := window("2025-10-01", "2025-10-03")
		_, err := source.GetEvents(context.Background(), from, to)

		assert.Error(t, err)
	})
}
