package ics

import (
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

// expand turns one parsed VEVENT into its concrete occurrences within
// [from, to]. Non-recurring events yield at most one occurrence.
func expand(ev parsedEvent, from, to time.Time) []calendar.Event {
	if ev.rawRRule == "" {
		if !overlaps(ev.start, ev.end, from, to) {
			return nil
		}
		return []calendar.Event{toEvent(ev, ev.start, ev.end)}
	}

	rule, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		log.Warnf("Skipping recurrence for %q, unparseable RRULE %q: %v", ev.summary, ev.rawRRule, err)
		if !overlaps(ev.start, ev.end, from, to) {
			return nil
		}
		return []calendar.Event{toEvent(ev, ev.start, ev.end)}
	}
	rule.DTStart(ev.start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	rangeStart := from.In(ev.start.Location())
	rangeEnd := to.In(ev.start.Location())
	starts := set.Between(rangeStart, rangeEnd, true)
	if len(starts) > maxOccurrencesPerEvent {
		log.Warnf("Truncating recurrence expansion for %q at %d occurrences", ev.summary, maxOccurrencesPerEvent)
		starts = starts[:maxOccurrencesPerEvent]
	}

	duration := ev.end.Sub(ev.start)
	events := make([]calendar.Event, 0, len(starts))
	for _, start := range starts {
		if ev.allDay {
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		}
		events = append(events, toEvent(ev, start, start.Add(duration)))
	}
	return events
}
