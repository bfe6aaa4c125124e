package calendar

import "time"

// DateFormat is the ISO date layout used for day keys across the pipeline.
const DateFormat = "2006-01-02"

// Event is a calendar event as returned by a Source. Timed events carry
// precise StartTime/EndTime instants; all-day events carry midnight bounds
// with AllDay set. A zero StartTime or EndTime means the source could not
// parse the corresponding instant.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Organizer   string
	Attendees   []string
}

// Date returns the event's calendar date in ISO yyyy-mm-dd form, taken from
// the start instant. Empty when the start instant is missing.
func (e Event) Date() string {
	if e.StartTime.IsZero() {
		return ""
	}
	return e.StartTime.Format(DateFormat)
}
