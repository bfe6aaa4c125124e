package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "https://tt-api.tikalk.dev", cfg.Tracker.URL)
		assert.Equal(t, 9.0, cfg.Policy.WorkdayHours)
		assert.Equal(t, []string{"Friday", "Saturday"}, cfg.Policy.Weekend)
		assert.Equal(t, "14", cfg.Policy.InternalProject)
		assert.Equal(t, "5", cfg.Policy.WorkTask)
		assert.Equal(t, "13", cfg.Policy.MeetingTask)
		assert.Equal(t, "8", cfg.Policy.LeaveTask)
		assert.Equal(t, "./ttsync.db", cfg.Journal.Path)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ttsync.yaml")
		content := `
tracker:
  email: dev@example.com
policy:
  workdayhours: 8
  defaultproject: "21"
calendar:
  work:
    type: ics
    url: https://example.com/work.ics
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "dev@example.com", cfg.Tracker.Email)
		assert.Equal(t, 8.0, cfg.Policy.WorkdayHours)
		assert.Equal(t, "21", cfg.Policy.DefaultProject)
		assert.Equal(t, SourceICS, cfg.Calendar.Work.Type)
		// untouched defaults survive
		assert.Equal(t, "14", cfg.Policy.InternalProject)
	})

	t.Run("environment overrides everything", func(t *testing.T) {
		t.Setenv("TTSYNC_TRACKER_EMAIL", "env@example.com")
		t.Setenv("TTSYNC_JOURNAL_PATH", "/tmp/journal.db")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "env@example.com", cfg.Tracker.Email)
		assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
	})
}

func TestValidate(t *testing.T) {
	valid := Application{
		Tracker: Tracker{Email: "dev@example.com", Password: "secret"},
		Calendar: Calendars{
			Work:    CalendarSource{Type: SourceGoogle, ID: "work@group.calendar.google.com"},
			Holiday: CalendarSource{Type: SourceICS, URL: "https://example.com/holidays.ics"},
		},
	}

	t.Run("complete configuration passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("missing credentials are reported", func(t *testing.T) {
		cfg := valid
		cfg.Tracker.Email = ""
		err := cfg.Validate()
		assert.ErrorContains(t, err, "tracker.email")
	})

	t.Run("google calendar needs an id", func(t *testing.T) {
		cfg := valid
		cfg.Calendar.Work = CalendarSource{Type: SourceGoogle}
		assert.ErrorContains(t, cfg.Validate(), "calendar.work.id")
	})

	t.Run("ics calendar needs a url", func(t *testing.T) {
		cfg := valid
		cfg.Calendar.Holiday = CalendarSource{Type: SourceICS}
		assert.ErrorContains(t, cfg.Validate(), "calendar.holiday.url")
	})

	t.Run("unknown calendar type is rejected", func(t *testing.T) {
		cfg := valid
		cfg.Calendar.Work = CalendarSource{Type: "caldav", ID: "x"}
		assert.Error(t, cfg.Validate())
	})
}

func TestWeekendDays(t *testing.T) {
	t.Run("parses names case-insensitively", func(t *testing.T) {
		policy := Policy{Weekend: []string{"friday", "SATURDAY"}}
		days, err := policy.WeekendDays()
		assert.NoError(t, err)
		assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, days)
	})

	t.Run("unknown day name is an error", func(t *testing.T) {
		policy := Policy{Weekend: []string{"Caturday"}}
		_, err := policy.WeekendDays()
		assert.ErrorContains(t, err, "Caturday")
	})
}
