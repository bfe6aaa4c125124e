package holiday

import (
	"testing"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/stretchr/testify/assert"
)

func holidayEvent(summary, date string) calendar.Event {
	day, _ := time.Parse(calendar.DateFormat, date)
	return calendar.Event{
		UID:       summary + "/" + date,
		Summary:   summary,
		StartTime: day,
		EndTime:   day.AddDate(0, 0, 1),
		AllDay:    true,
	}
}

func TestIsNonWorkingHoliday(t *testing.T) {
	detector := NewDetector(DefaultHolidayNames(), DefaultWeekend())

	t.Run("named holiday on the date matches", func(t *testing.T) {
		events := []calendar.Event{holidayEvent("Yom Kippur", "2025-10-02")}
		assert.True(t, detector.IsNonWorkingHoliday("2025-10-02", events))
	})

	t.Run("matching is case-insensitive and substring-based", func(t *testing.T) {
		events := []calendar.Event{holidayEvent("Erev Rosh Hashanah (observed)", "2025-09-22")}
		assert.True(t, detector.IsNonWorkingHoliday("2025-09-22", events))
	})

	t.Run("observance not in the list does not match", func(t *testing.T) {
		events := []calendar.Event{holidayEvent("Hanukkah begins", "2025-12-14")}
		assert.False(t, detector.IsNonWorkingHoliday("2025-12-14", events))
	})

	t.Run("holiday on another date does not match", func(t *testing.T) {
		events := []calendar.Event{holidayEvent("Yom Kippur", "2025-10-02")}
		assert.False(t, detector.IsNonWorkingHoliday("2025-10-03", events))
	})

	t.Run("no events means a regular day", func(t *testing.T) {
		assert.False(t, detector.IsNonWorkingHoliday("2025-10-02", nil))
	})
}

func TestIsWeekend(t *testing.T) {
	detector := NewDetector(nil, DefaultWeekend())

	assert.True(t, detector.IsWeekend(time.Date(2025, time.November, 28, 0, 0, 0, 0, time.UTC)))  // Friday
	assert.True(t, detector.IsWeekend(time.Date(2025, time.November, 29, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.False(t, detector.IsWeekend(time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC))) // Sunday
	assert.False(t, detector.IsWeekend(time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC))) // Monday
}

func TestIsWeekendCustomDefinition(t *testing.T) {
	detector := NewDetector(nil, []time.Weekday{time.Saturday, time.Sunday})

	assert.False(t, detector.IsWeekend(time.Date(2025, time.November, 28, 0, 0, 0, 0, time.UTC))) // Friday
	assert.True(t, detector.IsWeekend(time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)))  // Sunday
}

func TestIsWorkday(t *testing.T) {
	detector := NewDetector(DefaultHolidayNames(), DefaultWeekend())

	t.Run("regular weekday is a workday", func(t *testing.T) {
		workday, err := detector.IsWorkday("2025-11-24", nil)
		assert.NoError(t, err)
		assert.True(t, workday)
	})

	t.Run("weekend is not a workday", func(t *testing.T) {
		workday, err := detector.IsWorkday("2025-11-28", nil)
		assert.NoError(t, err)
		assert.False(t, workday)
	})

	t.Run("holiday is not a workday", func(t *testing.T) {
		events := []calendar.Event{holidayEvent("Yom Kippur", "2025-10-02")}
		workday, err := detector.IsWorkday("2025-10-02", events)
		assert.NoError(t, err)
		assert.False(t, workday)
	})

	t.Run("unparseable date is an error", func(t *testing.T) {
		_, err := detector.IsWorkday("02/10/2025", nil)
		assert.Error(t, err)
	})
}
