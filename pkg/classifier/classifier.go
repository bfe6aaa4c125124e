// Package classifier assigns calendar events to work categories based on a
// configurable title vocabulary.
package classifier

import (
	"strings"

	"github.com/alfasin/ttsync/pkg/calendar"
	"github.com/alfasin/ttsync/pkg/tracker"
)

// Category is the work category an event falls into.
type Category string

const (
	CategoryOffice  Category = "office"
	CategoryLeave   Category = "leave"
	CategoryMeeting Category = "meeting"
)

// ClassifiedEvent pairs a calendar event with its category and duration in
// hours, rounded to 2 decimals.
type ClassifiedEvent struct {
	Event    calendar.Event
	Category Category
	Hours    float64
}

// Vocabulary holds the case-insensitive title keywords that mark an event as
// office presence or leave. Policy data, injected rather than hard-coded.
type Vocabulary struct {
	OfficeKeywords []string
	LeaveKeywords  []string
}

// DefaultVocabulary returns the stock office and leave keyword lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		OfficeKeywords: []string{"wfo", "working from office"},
		LeaveKeywords:  []string{"vacation", "pto", "paid time off"},
	}
}

type Classifier struct {
	vocabulary Vocabulary
}

func New(vocabulary Vocabulary) *Classifier {
	return &Classifier{vocabulary: vocabulary}
}

// Classify categorizes a single event. Office presence takes precedence over
// leave; anything matching neither is a meeting.
func (c *Classifier) Classify(event calendar.Event) ClassifiedEvent {
	category := CategoryMeeting
	if c.IsOfficeEvent(event) {
		category = CategoryOffice
	} else if c.IsLeaveEvent(event) {
		category = CategoryLeave
	}

	return ClassifiedEvent{
		Event:    event,
		Category: category,
		Hours:    Duration(event),
	}
}

// ClassifyAll categorizes a batch of events preserving order.
func (c *Classifier) ClassifyAll(events []calendar.Event) []ClassifiedEvent {
	classified := make([]ClassifiedEvent, 0, len(events))
	for _, event := range events {
		classified = append(classified, c.Classify(event))
	}
	return classified
}

func (c *Classifier) IsOfficeEvent(event calendar.Event) bool {
	return matchesAny(event.Summary, c.vocabulary.OfficeKeywords)
}

func (c *Classifier) IsLeaveEvent(event calendar.Event) bool {
	return matchesAny(event.Summary, c.vocabulary.LeaveKeywords)
}

// Duration returns an event's length in hours, rounded to 2 decimals. A
// missing endpoint or an end before the start yields 0, never an error.
func Duration(event calendar.Event) float64 {
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		return 0
	}
	hours := event.EndTime.Sub(event.StartTime).Hours()
	if hours < 0 {
		return 0
	}
	return tracker.RoundHours(hours)
}

func matchesAny(summary string, keywords []string) bool {
	summary = strings.ToLower(summary)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(summary, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
