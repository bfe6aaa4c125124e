package daycalc

import (
	"testing"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/alfasin/ttsync/pkg/classifier"
	"github.com/alfasin/ttsync/pkg/holiday"
	"github.com/alfasin/ttsync/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		WorkdayHours:    9,
		DefaultProject:  "21",
		InternalProject: "14",
		WorkTask:        "5",
		MeetingTask:     "13",
		LeaveTask:       "8",
	}
}

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	calculator, err := NewCalculator(
		classifier.New(classifier.DefaultVocabulary()),
		holiday.NewDetector(holiday.DefaultHolidayNames(), holiday.DefaultWeekend()),
		testPolicy(),
	)
	require.NoError(t, err)
	return calculator
}

func timedEvent(summary, date string, startHour int, hours float64) calendar.Event {
	day, _ := time.Parse(calendar.DateFormat, date)
	start := day.Add(time.Duration(startHour) * time.Hour)
	return calendar.Event{
		UID:       summary + "/" + date,
		Summary:   summary,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours * float64(time.Hour))),
	}
}

func allDayEvent(summary, date string) calendar.Event {
	day, _ := time.Parse(calendar.DateFormat, date)
	return calendar.Event{
		UID:       summary + "/" + date,
		Summary:   summary,
		StartTime: day,
		EndTime:   day.AddDate(0, 0, 1),
		AllDay:    true,
	}
}

func TestNewCalculator(t *testing.T) {
	c := classifier.New(classifier.DefaultVocabulary())
	d := holiday.NewDetector(nil, holiday.DefaultWeekend())

	t.Run("missing default project is rejected", func(t *testing.T) {
		policy := testPolicy()
		policy.DefaultProject = ""
		_, err := NewCalculator(c, d, policy)
		assert.ErrorIs(t, err, ErrMissingProject)
	})

	t.Run("non-positive workday budget is rejected", func(t *testing.T) {
		policy := testPolicy()
		policy.WorkdayHours = 0
		_, err := NewCalculator(c, d, policy)
		assert.Error(t, err)
	})
}

func TestComputeDay(t *testing.T) {
	calculator := testCalculator(t)

	t.Run("holiday produces no entries even with meetings", func(t *testing.T) {
		holidays := []calendar.Event{allDayEvent("Yom Kippur", "2025-10-02")}
		work := []calendar.Event{timedEvent("Standup", "2025-10-02", 10, 1)}

		calculation := calculator.ComputeDay("2025-10-02", work, holidays)

		assert.True(t, calculation.IsHoliday)
		assert.Empty(t, calculation.Entries)
	})

	t.Run("weekend produces no entries", func(t *testing.T) {
		work := []calendar.Event{timedEvent("Standup", "2025-11-28", 10, 1)} // Friday
		calculation := calculator.ComputeDay("2025-11-28", work, nil)
		assert.Empty(t, calculation.Entries)
		assert.False(t, calculation.IsHoliday)
	})

	t.Run("office day books the full budget on the work project", func(t *testing.T) {
		work := []calendar.Event{
			allDayEvent("WFO", "2025-11-24"),
			timedEvent("Standup", "2025-11-24", 10, 2),
		}

		calculation := calculator.ComputeDay("2025-11-24", work, nil)

		assert.True(t, calculation.IsOffice)
		require.Len(t, calculation.Entries, 1)
		entry := calculation.Entries[0]
		assert.Equal(t, "21", entry.Project)
		assert.Equal(t, "5", entry.Task)
		assert.Equal(t, 9.0, entry.Hours)
		assert.Equal(t, tracker.EntryOffice, entry.Type)
	})

	t.Run("leave day books the full budget on the leave task", func(t *testing.T) {
		work := []calendar.Event{allDayEvent("Vacation", "2025-11-24")}

		calculation := calculator.ComputeDay("2025-11-24", work, nil)

		assert.True(t, calculation.IsLeave)
		require.Len(t, calculation.Entries, 1)
		entry := calculation.Entries[0]
		assert.Equal(t, "14", entry.Project)
		assert.Equal(t, "8", entry.Task)
		assert.Equal(t, 9.0, entry.Hours)
		assert.Equal(t, tracker.EntryLeave, entry.Type)
	})

	t.Run("office wins over leave on the same day", func(t *testing.T) {
		work := []calendar.Event{
			allDayEvent("Vacation", "2025-11-24"),
			allDayEvent("WFO", "2025-11-24"),
		}
		calculation := calculator.ComputeDay("2025-11-24", work, nil)
		assert.True(t, calculation.IsOffice)
		assert.False(t, calculation.IsLeave)
	})

	t.Run("meetings and leftover work split the budget", func(t *testing.T) {
		work := []calendar.Event{timedEvent("Standup", "2025-11-24", 10, 2)}

		calculation := calculator.ComputeDay("2025-11-24", work, nil)

		assert.Equal(t, 2.0, calculation.MeetingHours)
		assert.Equal(t, 7.0, calculation.OfficeHours)
		require.Len(t, calculation.Entries, 2)

		meeting := calculation.Entries[0]
		assert.Equal(t, "14", meeting.Project)
		assert.Equal(t, "13", meeting.Task)
		assert.Equal(t, 2.0, meeting.Hours)
		assert.Equal(t, "Meetings: Standup", meeting.Note)

		work1 := calculation.Entries[1]
		assert.Equal(t, "21", work1.Project)
		assert.Equal(t, "5", work1.Task)
		assert.Equal(t, 7.0, work1.Hours)
	})

	t.Run("meeting aggregate note joins all titles", func(t *testing.T) {
		work := []calendar.Event{
			timedEvent("Standup", "2025-11-24", 10, 0.5),
			timedEvent("Retro", "2025-11-24", 14, 1),
		}
		calculation := calculator.ComputeDay("2025-11-24", work, nil)
		require.NotEmpty(t, calculation.Entries)
		assert.Equal(t, "Meetings: Standup, Retro", calculation.Entries[0].Note)
	})

	t.Run("meetings exceeding the budget leave no work entry", func(t *testing.T) {
		work := []calendar.Event{timedEvent("Offsite", "2025-11-24", 8, 10)}

		calculation := calculator.ComputeDay("2025-11-24", work, nil)

		assert.Equal(t, 10.0, calculation.MeetingHours)
		assert.Equal(t, 0.0, calculation.OfficeHours)
		require.Len(t, calculation.Entries, 1)
		assert.Equal(t, tracker.EntryMeeting, calculation.Entries[0].Type)
	})

	t.Run("empty day books the full budget as work", func(t *testing.T) {
		calculation := calculator.ComputeDay("2025-11-24", nil, nil)

		require.Len(t, calculation.Entries, 1)
		assert.Equal(t, 9.0, calculation.Entries[0].Hours)
		assert.Equal(t, "Development work", calculation.Entries[0].Note)
	})

	t.Run("entry hours never exceed the budget on a normal day", func(t *testing.T) {
		work := []calendar.Event{
			timedEvent("Standup", "2025-11-24", 10, 0.75),
			timedEvent("1:1", "2025-11-24", 12, 0.5),
			timedEvent("Planning", "2025-11-24", 15, 1.5),
		}
		calculation := calculator.ComputeDay("2025-11-24", work, nil)

		total := 0.0
		for _, entry := range calculation.Entries {
			total += entry.Hours
		}
		assert.Equal(t, 9.0, total)
	})

	t.Run("events on other dates are ignored", func(t *testing.T) {
		work := []calendar.Event{timedEvent("Standup", "2025-11-25", 10, 2)}
		calculation := calculator.ComputeDay("2025-11-24", work, nil)
		assert.Equal(t, 0.0, calculation.MeetingHours)
	})
}

func TestComputeRange(t *testing.T) {
	calculator := testCalculator(t)

	t.Run("covers every date inclusive and ascending", func(t *testing.T) {
		calculations, err := calculator.ComputeRange("2025-11-24", "2025-11-30", nil, nil)
		assert.NoError(t, err)
		assert.Len(t, calculations, 7)
		assert.Equal(t, "2025-11-24", calculations[0].Date)
		assert.Equal(t, "2025-11-30", calculations[6].Date)
	})

	t.Run("weekend days inside the range carry no entries", func(t *testing.T) {
		calculations, err := calculator.ComputeRange("2025-11-24", "2025-11-30", nil, nil)
		assert.NoError(t, err)
		// Friday the 28th and Saturday the 29th.
		assert.Empty(t, calculations[4].Entries)
		assert.Empty(t, calculations[5].Entries)
		assert.NotEmpty(t, calculations[6].Entries) // Sunday is a workday
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := calculator.ComputeRange("2025-11-30", "2025-11-24", nil, nil)
		assert.Error(t, err)
	})

	t.Run("invalid dates are rejected", func(t *testing.T) {
		_, err := calculator.ComputeRange("not-a-date", "2025-11-24", nil, nil)
		assert.Error(t, err)
	})
}
