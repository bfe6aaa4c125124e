// Package holiday decides whether a date is a working day, based on an
// injected weekend definition and a named list of full-day holidays matched
// against a holiday calendar.
package holiday

import (
	"fmt"
	"strings"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
)

// DefaultHolidayNames lists the holidays treated as full days off. Calendar
// feeds carry many more observances than actual non-working days, so only
// titles containing one of these names count. Policy data, not inference.
func DefaultHolidayNames() []string {
	return []string{
		"Rosh Hashana",
		"Rosh Hashanah",
		"Yom Kippur",
		"Sukkot",
		"Pesach",
		"Passover",
		"Yom HaAtzmaut",
		"Yom Ha'atzmaut",
		"Independence Day",
	}
}

// DefaultWeekend is the Israeli work week's weekend. Swappable because the
// weekend is a regional convention, not a calendar fact.
func DefaultWeekend() []time.Weekday {
	return []time.Weekday{time.Friday, time.Saturday}
}

type Detector struct {
	holidayNames []string
	weekend      map[time.Weekday]bool
}

func NewDetector(holidayNames []string, weekend []time.Weekday) *Detector {
	weekendSet := make(map[time.Weekday]bool, len(weekend))
	for _, day := range weekend {
		weekendSet[day] = true
	}
	return &Detector{holidayNames: holidayNames, weekend: weekendSet}
}

// IsNonWorkingHoliday reports whether the given date (yyyy-mm-dd) has at
// least one holiday-calendar event whose title names a full day off.
func (d *Detector) IsNonWorkingHoliday(date string, holidayEvents []calendar.Event) bool {
	for _, event := range holidayEvents {
		if event.Date() != date {
			continue
		}
		summary := strings.ToLower(event.Summary)
		for _, name := range d.holidayNames {
			if strings.Contains(summary, strings.ToLower(name)) {
				return true
			}
		}
	}
	return false
}

// IsWeekend reports whether t falls on a configured weekend day.
func (d *Detector) IsWeekend(t time.Time) bool {
	return d.weekend[t.Weekday()]
}

// IsWorkday reports whether the date is neither weekend nor non-working
// holiday. Fails only on an unparseable date.
func (d *Detector) IsWorkday(date string, holidayEvents []calendar.Event) (bool, error) {
	day, err := time.Parse(calendar.DateFormat, date)
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if d.IsWeekend(day) {
		return false, nil
	}
	return !d.IsNonWorkingHoliday(date, holidayEvents), nil
}
