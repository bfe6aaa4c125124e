// Package daycalc computes the time entries that should exist in the ledger
// for each calendar date.
package daycalc

import (
	"fmt"
	"strings"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/alfasin/ttsync/pkg/classifier"
	"github.com/alfasin/ttsync/pkg/holiday"
	"github.com/alfasin/ttsync/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

var ErrMissingProject = fmt.Errorf("default work project id is not configured")

// Policy carries the ledger identifiers and the daily hour budget the
// computation books against.
type Policy struct {
	// WorkdayHours is the fixed budget of bookable hours per working day.
	WorkdayHours float64
	// DefaultProject receives office-presence days and leftover work hours.
	// Required; computation refuses to start without it.
	DefaultProject string
	// InternalProject receives meeting and leave entries.
	InternalProject string
	WorkTask        string
	MeetingTask     string
	LeaveTask       string
}

// DayCalculation is the computed outcome for one date. IsHoliday, IsOffice
// and IsLeave are mutually exclusive; a holiday carries no entries, office
// and leave days carry exactly one entry, and a normal workday carries a
// meeting aggregate and/or a default-work entry.
type DayCalculation struct {
	Date         string
	IsHoliday    bool
	IsOffice     bool
	IsLeave      bool
	MeetingHours float64
	OfficeHours  float64
	Entries      []tracker.TimeEntry
}

type Calculator struct {
	classifier *classifier.Classifier
	detector   *holiday.Detector
	policy     Policy
}

// NewCalculator validates the policy up front: producing entries with an
// empty project id would pass silently until the ledger rejects them.
func NewCalculator(c *classifier.Classifier, d *holiday.Detector, policy Policy) (*Calculator, error) {
	if policy.DefaultProject == "" {
		return nil, ErrMissingProject
	}
	if policy.WorkdayHours <= 0 {
		return nil, fmt.Errorf("workday hours must be positive, got %v", policy.WorkdayHours)
	}
	return &Calculator{classifier: c, detector: d, policy: policy}, nil
}

// ComputeDay decides what the ledger should hold for one date. The decision
// order is: holiday, weekend, office presence, leave, normal workday; the
// first matching branch wins.
func (c *Calculator) ComputeDay(date string, workEvents []calendar.Event, holidayEvents []calendar.Event) DayCalculation {
	calculation := DayCalculation{Date: date}

	if c.detector.IsNonWorkingHoliday(date, holidayEvents) {
		log.Debugf("%s is a non-working holiday, nothing to book", date)
		calculation.IsHoliday = true
		return calculation
	}

	day, err := time.Parse(calendar.DateFormat, date)
	if err != nil {
		log.Warnf("Skipping unparseable date %q: %v", date, err)
		return calculation
	}
	if c.detector.IsWeekend(day) {
		return calculation
	}

	classified := c.classifier.ClassifyAll(eventsOnDate(date, workEvents))

	if containsCategory(classified, classifier.CategoryOffice) {
		calculation.IsOffice = true
		calculation.OfficeHours = c.policy.WorkdayHours
		calculation.Entries = []tracker.TimeEntry{{
			Date:    date,
			Project: c.policy.DefaultProject,
			Task:    c.policy.WorkTask,
			Hours:   c.policy.WorkdayHours,
			Note:    "Working from the office",
			Type:    tracker.EntryOffice,
		}}
		return calculation
	}

	if containsCategory(classified, classifier.CategoryLeave) {
		calculation.IsLeave = true
		calculation.Entries = []tracker.TimeEntry{{
			Date:    date,
			Project: c.policy.InternalProject,
			Task:    c.policy.LeaveTask,
			Hours:   c.policy.WorkdayHours,
			Note:    "Vacation/PTO",
			Type:    tracker.EntryLeave,
		}}
		return calculation
	}

	// Normal workday: meetings first, leftover hours as default work.
	var meetings []classifier.ClassifiedEvent
	meetingHours := 0.0
	for _, event := range classified {
		if event.Category == classifier.CategoryMeeting {
			meetings = append(meetings, event)
			meetingHours += event.Hours
		}
	}
	meetingHours = tracker.RoundHours(meetingHours)
	officeHours := tracker.RoundHours(c.policy.WorkdayHours - meetingHours)
	if officeHours < 0 {
		officeHours = 0
	}

	calculation.MeetingHours = meetingHours
	calculation.OfficeHours = officeHours

	if meetingHours > 0 {
		titles := make([]string, 0, len(meetings))
		for _, meeting := range meetings {
			titles = append(titles, meeting.Event.Summary)
		}
		calculation.Entries = append(calculation.Entries, tracker.TimeEntry{
			Date:    date,
			Project: c.policy.InternalProject,
			Task:    c.policy.MeetingTask,
			Hours:   meetingHours,
			Note:    "Meetings: " + strings.Join(titles, ", "),
			Type:    tracker.EntryMeeting,
		})
	}
	if officeHours > 0 {
		calculation.Entries = append(calculation.Entries, tracker.TimeEntry{
			Date:    date,
			Project: c.policy.DefaultProject,
			Task:    c.policy.WorkTask,
			Hours:   officeHours,
			Note:    "Development work",
			Type:    tracker.EntryOffice,
		})
	}

	return calculation
}

// ComputeRange runs ComputeDay over every date in [startDate, endDate],
// ascending. Days are independent; unused hours never carry over.
func (c *Calculator) ComputeRange(startDate, endDate string, workEvents []calendar.Event, holidayEvents []calendar.Event) ([]DayCalculation, error) {
	start, err := time.Parse(calendar.DateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(calendar.DateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	var calculations []DayCalculation
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		calculations = append(calculations, c.ComputeDay(day.Format(calendar.DateFormat), workEvents, holidayEvents))
	}
	return calculations, nil
}

func eventsOnDate(date string, events []calendar.Event) []calendar.Event {
	var filtered []calendar.Event
	for _, event := range events {
		if event.Date() == date {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func containsCategory(events []classifier.ClassifiedEvent, category classifier.Category) bool {
	for _, event := range events {
		if event.Category == category {
			return true
		}
	}
	return false
}
