// Package ics implements a calendar.Source for calendars published as ICS
// feeds (typical for public holiday calendars). Recurring events are
// expanded into concrete occurrences inside the query window.
package ics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alfasin/ttsync/pkg/calendar"
	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
)

// maxOccurrencesPerEvent caps recurrence expansion so a malformed RRULE
// cannot blow up a month query.
const maxOccurrencesPerEvent = 1000

// Source fetches and parses one ICS feed.
type Source struct {
	url        string
	httpClient *http.Client
}

func NewSource(url string) *Source {
	return &Source{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *Source) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return parseAndExpand(body, from, to)
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ICS feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ICS feed returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseAndExpand parses an ICS payload and returns every occurrence that
// overlaps [from, to]. A VEVENT that fails to parse is logged and skipped so
// one bad entry does not hide the rest of the feed.
func parseAndExpand(body []byte, from, to time.Time) ([]calendar.Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS feed: %w", err)
	}

	var events []calendar.Event
	for _, vevent := range cal.Events() {
		parsed, err := parseVEvent(vevent)
		if err != nil {
			log.Warnf("Skipping unparseable VEVENT: %v", err)
			continue
		}
		events = append(events, expand(parsed, from, to)...)
	}
	return events, nil
}

type parsedEvent struct {
	uid         string
	summary     string
	description string
	start       time.Time
	end         time.Time
	allDay      bool
	rawRRule    string
	exDates     []time.Time
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	if uid := ve.GetProperty(ical.ComponentPropertyUniqueId); uid != nil {
		out.uid = uid.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.description = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %q has no parseable DTSTART: %w", out.summary, err)
	}
	out.start = start
	// DTEND is optional; all-day events commonly omit it.
	if end, err := ve.GetEndAt(); err == nil {
		out.end = end
	}

	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if params := dtStart.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.allDay = true
			}
		}
		if !strings.Contains(dtStart.Value, "T") {
			out.allDay = true
		}
	}
	if out.allDay {
		day := time.Date(out.start.Year(), out.start.Month(), out.start.Day(), 0, 0, 0, 0, out.start.Location())
		out.start = day
		out.end = day.Add(24 * time.Hour)
	}
	if out.end.IsZero() {
		out.end = out.start
	}

	if rr := ve.GetProperty(ical.ComponentPropertyRrule); rr != nil {
		out.rawRRule = rr.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

func parseICSTime(v string) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, fmt.Errorf("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}

func toEvent(ev parsedEvent, start, end time.Time) calendar.Event {
	return calendar.Event{
		UID:         ev.uid,
		Summary:     ev.summary,
		Description: ev.description,
		StartTime:   start,
		EndTime:     end,
		AllDay:      ev.allDay,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
